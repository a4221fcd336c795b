package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// FoundReportInput carries the editable fields of a found report.
// LostReferenceCode correlates the new report with an existing lost report;
// the backend resolves the link, the client only passes the code through.
type FoundReportInput struct {
	LostReferenceCode string
	LocationFound     string
	DateFound         string
	StorageLocation   string
	ExtraDescription  string
}

type foundReportPayload struct {
	LostReferenceCode string `json:"lostReferenceCode,omitempty"`
	LocationFound     string `json:"locationFound"`
	DateFound         string `json:"dateFound"`
	StorageLocation   string `json:"storageLocation,omitempty"`
	ExtraDescription  string `json:"extraDescription,omitempty"`
}

// FoundReportService manages found reports.
type FoundReportService struct {
	client *api.Client
	sess   Sessioner
}

func NewFoundReportService(client *api.Client, sess Sessioner) *FoundReportService {
	return &FoundReportService{client: client, sess: sess}
}

// List fetches found reports, optionally filtered and paginated.
func (s *FoundReportService) List(ctx context.Context, params api.Params) ([]models.FoundReport, *api.PageInfo, error) {
	raw, err := s.client.Get(ctx, "/api/v1/found-reports", params)
	if err != nil {
		return nil, nil, err
	}
	return api.DecodeList[models.FoundReport](raw)
}

func (in *FoundReportInput) trim() {
	in.LostReferenceCode = strings.TrimSpace(in.LostReferenceCode)
	in.LocationFound = strings.TrimSpace(in.LocationFound)
	in.DateFound = strings.TrimSpace(in.DateFound)
	in.StorageLocation = strings.TrimSpace(in.StorageLocation)
	in.ExtraDescription = strings.TrimSpace(in.ExtraDescription)
}

// Create submits a new found report. The reference code of the matching
// lost report is required on creation so the backend can correlate the two.
func (s *FoundReportService) Create(ctx context.Context, input FoundReportInput) (models.FoundReport, error) {
	if s.sess.CurrentUserID() == 0 {
		return models.FoundReport{}, ErrNotAuthenticated
	}
	input.trim()
	if input.LostReferenceCode == "" || input.LocationFound == "" || input.DateFound == "" {
		return models.FoundReport{}, &ValidationError{
			Message: "Reference code, location, and date found are required.",
		}
	}
	raw, err := s.client.Post(ctx, "/api/v1/found-reports", foundReportPayload{
		LostReferenceCode: input.LostReferenceCode,
		LocationFound:     input.LocationFound,
		DateFound:         input.DateFound,
		StorageLocation:   input.StorageLocation,
		ExtraDescription:  input.ExtraDescription,
	})
	if err != nil {
		return models.FoundReport{}, err
	}
	return api.DecodeOne[models.FoundReport](raw)
}

// Update edits an existing report. The lost-report link is already
// established, so the reference code is omitted from the payload.
func (s *FoundReportService) Update(ctx context.Context, id int64, input FoundReportInput) (models.FoundReport, error) {
	input.trim()
	if input.LocationFound == "" || input.DateFound == "" {
		return models.FoundReport{}, &ValidationError{
			Message: "Reference code, location, and date found are required.",
		}
	}
	raw, err := s.client.Put(ctx, fmt.Sprintf("/api/v1/found-reports/%d", id), foundReportPayload{
		LocationFound:    input.LocationFound,
		DateFound:        input.DateFound,
		StorageLocation:  input.StorageLocation,
		ExtraDescription: input.ExtraDescription,
	})
	if err != nil {
		return models.FoundReport{}, err
	}
	return api.DecodeOne[models.FoundReport](raw)
}

// SetStatus is the administrative override on a found report's lifecycle,
// gated on the report-management capability.
func (s *FoundReportService) SetStatus(ctx context.Context, id int64, status models.FoundReportStatus) (models.FoundReport, error) {
	if !s.sess.HasPermission(models.PermManageReports) {
		return models.FoundReport{}, ErrPermissionDenied
	}
	raw, err := s.client.Patch(ctx, fmt.Sprintf("/api/v1/found-reports/%d/status", id), api.Params{
		"status": string(status),
	})
	if err != nil {
		return models.FoundReport{}, err
	}
	return api.DecodeOne[models.FoundReport](raw)
}

// Delete removes a found report, privileged only.
func (s *FoundReportService) Delete(ctx context.Context, id int64) error {
	if !s.sess.HasPermission(models.PermManageReports) {
		return ErrPermissionDenied
	}
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/v1/found-reports/%d", id))
	return err
}
