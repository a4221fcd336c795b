package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// ItemInput carries the editable fields of an item. The image is accepted
// in any of the tolerated encodings and normalized once on the way out.
type ItemInput struct {
	Name               string `json:"name" validate:"required"`
	Category           string `json:"category" validate:"required"`
	Brand              string `json:"brand,omitempty"`
	Color              string `json:"color,omitempty"`
	Description        string `json:"description,omitempty"`
	SerialNumber       string `json:"serialNumber,omitempty"`
	IdentifierMarkings string `json:"identifierMarkings,omitempty"`
	ImageData          string `json:"-"`
}

var itemMessages = map[string]string{
	"Name":     "Item name is required",
	"Category": "Item category is required",
}

// itemPayload is the wire form with the canonical image representation.
type itemPayload struct {
	ItemInput
	ImageData models.ImageData `json:"imageData"`
}

func (in ItemInput) trim() ItemInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Color = strings.TrimSpace(in.Color)
	in.Description = strings.TrimSpace(in.Description)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	in.IdentifierMarkings = strings.TrimSpace(in.IdentifierMarkings)
	return in
}

func (in ItemInput) payload() itemPayload {
	return itemPayload{ItemInput: in, ImageData: models.NormalizeImage(in.ImageData)}
}

// ItemService manages item records.
type ItemService struct {
	client *api.Client
}

func NewItemService(client *api.Client) *ItemService {
	return &ItemService{client: client}
}

// List fetches items, optionally filtered by name/category/keyword.
func (s *ItemService) List(ctx context.Context, params api.Params) ([]models.Item, *api.PageInfo, error) {
	raw, err := s.client.Get(ctx, "/api/v1/items", params)
	if err != nil {
		return nil, nil, err
	}
	return api.DecodeList[models.Item](raw)
}

// Create validates and submits a new item record.
func (s *ItemService) Create(ctx context.Context, input ItemInput) (models.Item, error) {
	input = input.trim()
	if err := checkInput(input, itemMessages); err != nil {
		return models.Item{}, err
	}
	raw, err := s.client.Post(ctx, "/api/v1/items", input.payload())
	if err != nil {
		return models.Item{}, err
	}
	return api.DecodeOne[models.Item](raw)
}

// Update validates and replaces an existing item record.
func (s *ItemService) Update(ctx context.Context, id int64, input ItemInput) (models.Item, error) {
	input = input.trim()
	if err := checkInput(input, itemMessages); err != nil {
		return models.Item{}, err
	}
	raw, err := s.client.Put(ctx, fmt.Sprintf("/api/v1/items/%d", id), input.payload())
	if err != nil {
		return models.Item{}, err
	}
	return api.DecodeOne[models.Item](raw)
}

// Delete removes an item record.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/v1/items/%d", id))
	return err
}
