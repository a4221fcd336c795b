package models

import (
	"fmt"
	"strings"
)

// Status values are closed enumerations on the backend, but the client must
// tolerate values it does not recognize (display as-is, never fail).

type LostReportStatus string

const (
	LostPending LostReportStatus = "PENDING"
	LostMatched LostReportStatus = "MATCHED"
	LostClosed  LostReportStatus = "CLOSED"
)

type FoundReportStatus string

const (
	FoundAvailable    FoundReportStatus = "AVAILABLE"
	FoundClaimPending FoundReportStatus = "CLAIM_PENDING"
	FoundClaimed      FoundReportStatus = "CLAIMED"
	FoundArchived     FoundReportStatus = "ARCHIVED"
)

type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "PENDING"
	ClaimApproved  ClaimStatus = "APPROVED"
	ClaimRejected  ClaimStatus = "REJECTED"
	ClaimCancelled ClaimStatus = "CANCELLED"
)

// Roles are coarse labels; capability checks use token permissions instead.
const (
	RoleStudent  = "STUDENT"
	RoleStaff    = "STAFF"
	RoleSecurity = "SECURITY"
	RoleAdmin    = "ADMIN"
)

// LostReportStatuses lists the known lost report statuses in lifecycle order.
var LostReportStatuses = []LostReportStatus{LostPending, LostMatched, LostClosed}

// FoundReportStatuses lists the known found report statuses in lifecycle order.
var FoundReportStatuses = []FoundReportStatus{FoundAvailable, FoundClaimPending, FoundClaimed, FoundArchived}

// ClaimStatuses lists the known claim statuses.
var ClaimStatuses = []ClaimStatus{ClaimPending, ClaimApproved, ClaimRejected, ClaimCancelled}

// UserRoles lists the known account roles.
var UserRoles = []string{RoleStudent, RoleStaff, RoleSecurity, RoleAdmin}

func (s LostReportStatus) Known() bool {
	switch s {
	case LostPending, LostMatched, LostClosed:
		return true
	}
	return false
}

func (s FoundReportStatus) Known() bool {
	switch s {
	case FoundAvailable, FoundClaimPending, FoundClaimed, FoundArchived:
		return true
	}
	return false
}

func (s ClaimStatus) Known() bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimRejected, ClaimCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted out of s.
// APPROVED, REJECTED and CANCELLED are all terminal; only PENDING claims
// accept a review or cancellation.
func (s ClaimStatus) Terminal() bool {
	switch s {
	case ClaimApproved, ClaimRejected, ClaimCancelled:
		return true
	}
	return false
}

// Reviewable reports whether the claim currently accepts a review decision.
func (c Claim) Reviewable() bool {
	return c.Status == ClaimPending
}

// ValidateClaimTransition checks a claim status change against the lifecycle:
// PENDING may move to APPROVED, REJECTED or CANCELLED; terminal states accept
// nothing.
func ValidateClaimTransition(from, to ClaimStatus) error {
	if from != ClaimPending {
		return fmt.Errorf("claim is %s: only PENDING claims can transition", from)
	}
	switch to {
	case ClaimApproved, ClaimRejected, ClaimCancelled:
		return nil
	}
	return fmt.Errorf("invalid claim status %q", to)
}

// Label renders a status value for display: Claim pending, Approved, and so
// on. Unrecognized values come back title-cased rather than rejected.
func Label(status string) string {
	s := strings.TrimSpace(status)
	if s == "" {
		return "—"
	}
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '_' })
	if len(words) == 0 {
		return s
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

func lostFallbackRef(id int64) string {
	return fmt.Sprintf("L-%d", id)
}

func foundFallbackRef(id int64) string {
	return fmt.Sprintf("F-%d", id)
}
