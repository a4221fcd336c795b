package services

import (
	"context"
	"fmt"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// LostReportInput carries the report fields of a lost report. The item
// travels separately because creation is a two-step flow: the item record
// first, then the report referencing it.
type LostReportInput struct {
	Item             ItemInput
	LocationLost     string `validate:"required"`
	DateLost         string `validate:"required"`
	ExtraDescription string
}

var lostReportMessages = map[string]string{
	"LocationLost": "Location lost is required",
	"DateLost":     "Date lost is required",
}

type lostReportPayload struct {
	UserID           int64  `json:"userId"`
	ItemID           int64  `json:"itemId"`
	LocationLost     string `json:"locationLost"`
	DateLost         string `json:"dateLost"`
	ExtraDescription string `json:"extraDescription,omitempty"`
}

// LostReportService manages lost reports and their linked items.
type LostReportService struct {
	client *api.Client
	items  *ItemService
	sess   Sessioner
}

func NewLostReportService(client *api.Client, items *ItemService, sess Sessioner) *LostReportService {
	return &LostReportService{client: client, items: items, sess: sess}
}

// List fetches lost reports, optionally filtered by status/userId/keyword
// and paginated with page/size.
func (s *LostReportService) List(ctx context.Context, params api.Params) ([]models.LostReport, *api.PageInfo, error) {
	raw, err := s.client.Get(ctx, "/api/v1/lost-reports", params)
	if err != nil {
		return nil, nil, err
	}
	return api.DecodeList[models.LostReport](raw)
}

func (s *LostReportService) validateInput(input *LostReportInput) error {
	input.Item = input.Item.trim()
	if err := checkInput(input.Item, itemMessages); err != nil {
		return err
	}
	return checkInput(*input, lostReportMessages)
}

// Create validates the full form, creates the item record, then the report
// against it, reported by the authenticated user. All checks run before
// any network call.
func (s *LostReportService) Create(ctx context.Context, input LostReportInput) (models.LostReport, error) {
	userID := s.sess.CurrentUserID()
	if userID == 0 {
		return models.LostReport{}, ErrNotAuthenticated
	}
	if err := s.validateInput(&input); err != nil {
		return models.LostReport{}, err
	}

	item, err := s.items.Create(ctx, input.Item)
	if err != nil {
		return models.LostReport{}, err
	}

	raw, err := s.client.Post(ctx, "/api/v1/lost-reports", lostReportPayload{
		UserID:           userID,
		ItemID:           item.ID,
		LocationLost:     input.LocationLost,
		DateLost:         input.DateLost,
		ExtraDescription: input.ExtraDescription,
	})
	if err != nil {
		return models.LostReport{}, err
	}
	return api.DecodeOne[models.LostReport](raw)
}

// Update rewrites an existing report and its item. The reporter stays the
// original user.
func (s *LostReportService) Update(ctx context.Context, report models.LostReport, input LostReportInput) (models.LostReport, error) {
	if err := s.validateInput(&input); err != nil {
		return models.LostReport{}, err
	}
	if _, err := s.items.Update(ctx, report.ItemID, input.Item); err != nil {
		return models.LostReport{}, err
	}
	raw, err := s.client.Put(ctx, fmt.Sprintf("/api/v1/lost-reports/%d", report.ID), lostReportPayload{
		UserID:           report.UserID,
		ItemID:           report.ItemID,
		LocationLost:     input.LocationLost,
		DateLost:         input.DateLost,
		ExtraDescription: input.ExtraDescription,
	})
	if err != nil {
		return models.LostReport{}, err
	}
	return api.DecodeOne[models.LostReport](raw)
}

// SetStatus is the administrative override on a report's lifecycle,
// gated on the report-management capability.
func (s *LostReportService) SetStatus(ctx context.Context, id int64, status models.LostReportStatus) (models.LostReport, error) {
	if !s.sess.HasPermission(models.PermManageReports) {
		return models.LostReport{}, ErrPermissionDenied
	}
	raw, err := s.client.Patch(ctx, fmt.Sprintf("/api/v1/lost-reports/%d/status", id), api.Params{
		"status": string(status),
	})
	if err != nil {
		return models.LostReport{}, err
	}
	return api.DecodeOne[models.LostReport](raw)
}

// Delete removes a lost report, privileged only.
func (s *LostReportService) Delete(ctx context.Context, id int64) error {
	if !s.sess.HasPermission(models.PermManageReports) {
		return ErrPermissionDenied
	}
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/v1/lost-reports/%d", id))
	return err
}
