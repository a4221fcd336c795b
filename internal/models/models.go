package models

// User is an account known to the backend. Role is a coarse label; the
// fine-grained capability set travels separately in the session token claims.
type User struct {
	ID                 int64  `json:"id"`
	FullName           string `json:"fullName"`
	Username           string `json:"username,omitempty"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	Role               string `json:"role,omitempty"`
	Department         string `json:"department,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Active             bool   `json:"active"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

// Item is a physical object referenced by reports. One item record may be
// linked from at most one lost and one found report in practice, though the
// backend schema does not enforce this.
type Item struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	Brand              string    `json:"brand,omitempty"`
	Color              string    `json:"color,omitempty"`
	Description        string    `json:"description,omitempty"`
	SerialNumber       string    `json:"serialNumber,omitempty"`
	IdentifierMarkings string    `json:"identifierMarkings,omitempty"`
	ImageData          ImageData `json:"imageData,omitempty"`
	CreatedAt          string    `json:"createdAt,omitempty"`
	UpdatedAt          string    `json:"updatedAt,omitempty"`
}

// LostReport records an item a user has reported missing. ReferenceCode is
// server-assigned and immutable; it is the human correlation key across
// lost/found records.
type LostReport struct {
	ID               int64            `json:"id"`
	ReferenceCode    string           `json:"referenceCode,omitempty"`
	UserID           int64            `json:"userId"`
	ItemID           int64            `json:"itemId"`
	LocationLost     string           `json:"locationLost"`
	DateLost         string           `json:"dateLost"`
	ExtraDescription string           `json:"extraDescription,omitempty"`
	Status           LostReportStatus `json:"status"`
	CreatedAt        string           `json:"createdAt,omitempty"`
	UpdatedAt        string           `json:"updatedAt,omitempty"`
}

// FoundReport records a recovered item held pending claim.
type FoundReport struct {
	ID               int64             `json:"id"`
	ReferenceCode    string            `json:"referenceCode,omitempty"`
	UserID           int64             `json:"userId"`
	ItemID           int64             `json:"itemId,omitempty"`
	LocationFound    string            `json:"locationFound"`
	DateFound        string            `json:"dateFound"`
	StorageLocation  string            `json:"storageLocation,omitempty"`
	ExtraDescription string            `json:"extraDescription,omitempty"`
	Status           FoundReportStatus `json:"status"`
	CreatedAt        string            `json:"createdAt,omitempty"`
	UpdatedAt        string            `json:"updatedAt,omitempty"`
}

// Claim is a user's assertion of ownership over a found report's item,
// subject to review. A claim references exactly one found report; a found
// report carries at most one APPROVED claim (enforced server-side).
type Claim struct {
	ID                 int64       `json:"id"`
	UserID             int64       `json:"userId"`
	FoundReportID      int64       `json:"foundReportId"`
	Reason             string      `json:"reason"`
	VerificationAnswer string      `json:"verificationAnswer,omitempty"`
	Attachments        []string    `json:"attachments,omitempty"`
	Status             ClaimStatus `json:"status"`
	ReviewedByID       *int64      `json:"reviewedById,omitempty"`
	ReviewNotes        string      `json:"reviewNotes,omitempty"`
	User               *User       `json:"user,omitempty"`
	CreatedAt          string      `json:"createdAt,omitempty"`
	UpdatedAt          string      `json:"updatedAt,omitempty"`
}

// ReferenceLabel returns the human correlation key for a lost report,
// falling back to the L-<id> form when the backend assigned none.
func (r LostReport) ReferenceLabel() string {
	if r.ReferenceCode != "" {
		return r.ReferenceCode
	}
	return lostFallbackRef(r.ID)
}

// ReferenceLabel returns the human correlation key for a found report,
// falling back to the F-<id> form when the backend assigned none.
func (r FoundReport) ReferenceLabel() string {
	if r.ReferenceCode != "" {
		return r.ReferenceCode
	}
	return foundFallbackRef(r.ID)
}
