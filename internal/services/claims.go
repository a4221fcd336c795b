package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// SubmitClaimInput carries a new ownership claim. Attachments are proof
// documents (images or PDFs) transported as data URLs; zero attachments is
// valid.
type SubmitClaimInput struct {
	FoundReportID      int64
	Reason             string
	VerificationAnswer string
	Attachments        []string
}

type claimPayload struct {
	UserID             int64    `json:"userId"`
	FoundReportID      int64    `json:"foundReportId"`
	Reason             string   `json:"reason"`
	VerificationAnswer string   `json:"verificationAnswer,omitempty"`
	Attachments        []string `json:"attachments"`
}

// ClaimService manages the claim lifecycle: submission by claimants,
// review by holders of the verify capability, cancellation by claimants.
type ClaimService struct {
	client *api.Client
	sess   Sessioner
}

func NewClaimService(client *api.Client, sess Sessioner) *ClaimService {
	return &ClaimService{client: client, sess: sess}
}

// List fetches claims. A caller without the verify capability only ever
// sees their own claims; the filter is forced here rather than trusted to
// each view.
func (s *ClaimService) List(ctx context.Context, params api.Params) ([]models.Claim, *api.PageInfo, error) {
	merged := api.Params{}
	for k, v := range params {
		merged[k] = v
	}
	if !s.sess.HasPermission(models.PermVerifyClaim) {
		merged["userId"] = strconv.FormatInt(s.sess.CurrentUserID(), 10)
	}
	raw, err := s.client.Get(ctx, "/api/v1/claims", merged)
	if err != nil {
		return nil, nil, err
	}
	return api.DecodeList[models.Claim](raw)
}

// Submit files a new claim for the authenticated user. The found report
// side effect (status toward CLAIM_PENDING) is server-enforced; callers
// refetch to observe it.
func (s *ClaimService) Submit(ctx context.Context, input SubmitClaimInput) (models.Claim, error) {
	userID := s.sess.CurrentUserID()
	if userID == 0 {
		return models.Claim{}, ErrNotAuthenticated
	}
	if input.FoundReportID == 0 {
		return models.Claim{}, &ValidationError{Message: "Found report is required."}
	}
	if strings.TrimSpace(input.Reason) == "" {
		return models.Claim{}, &ValidationError{Message: "Reason is required."}
	}

	attachments := input.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	raw, err := s.client.Post(ctx, "/api/v1/claims", claimPayload{
		UserID:             userID,
		FoundReportID:      input.FoundReportID,
		Reason:             strings.TrimSpace(input.Reason),
		VerificationAnswer: strings.TrimSpace(input.VerificationAnswer),
		Attachments:        attachments,
	})
	if err != nil {
		return models.Claim{}, err
	}
	return api.DecodeOne[models.Claim](raw)
}

// Review records a decision on a pending claim. Only APPROVED or REJECTED
// are decisions; the caller must hold the verify capability and the claim
// must still be PENDING. On approval the backend moves the found report to
// CLAIMED and invalidates sibling pending claims; refetch to observe.
func (s *ClaimService) Review(ctx context.Context, claim models.Claim, status models.ClaimStatus, notes string) (models.Claim, error) {
	if !s.sess.HasPermission(models.PermVerifyClaim) {
		return models.Claim{}, ErrPermissionDenied
	}
	reviewerID := s.sess.CurrentUserID()
	if reviewerID == 0 {
		return models.Claim{}, ErrNotAuthenticated
	}
	if status != models.ClaimApproved && status != models.ClaimRejected {
		return models.Claim{}, fmt.Errorf("review decision must be APPROVED or REJECTED, got %s", status)
	}
	if err := models.ValidateClaimTransition(claim.Status, status); err != nil {
		return models.Claim{}, err
	}

	raw, err := s.client.Patch(ctx, fmt.Sprintf("/api/v1/claims/%d/status", claim.ID), api.Params{
		"status":      string(status),
		"reviewerId":  strconv.FormatInt(reviewerID, 10),
		"reviewNotes": strings.TrimSpace(notes),
	})
	if err != nil {
		return models.Claim{}, err
	}
	return api.DecodeOne[models.Claim](raw)
}

// Cancel withdraws the caller's own pending claim.
func (s *ClaimService) Cancel(ctx context.Context, claim models.Claim) (models.Claim, error) {
	userID := s.sess.CurrentUserID()
	if userID == 0 {
		return models.Claim{}, ErrNotAuthenticated
	}
	if claim.UserID != userID && !s.sess.HasPermission(models.PermVerifyClaim) {
		return models.Claim{}, ErrPermissionDenied
	}
	if err := models.ValidateClaimTransition(claim.Status, models.ClaimCancelled); err != nil {
		return models.Claim{}, err
	}
	raw, err := s.client.Patch(ctx, fmt.Sprintf("/api/v1/claims/%d/status", claim.ID), api.Params{
		"status": string(models.ClaimCancelled),
	})
	if err != nil {
		return models.Claim{}, err
	}
	return api.DecodeOne[models.Claim](raw)
}
