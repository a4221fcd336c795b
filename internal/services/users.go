package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// UserInput carries the editable fields of a user account.
type UserInput struct {
	FullName           string `json:"fullName" validate:"required"`
	Username           string `json:"username"`
	Email              string `json:"email" validate:"required,email"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	Role               string `json:"role,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Department         string `json:"department,omitempty"`
	Active             bool   `json:"active"`
	Password           string `json:"password,omitempty"`
}

var userMessages = map[string]string{
	"FullName": "Full name is required.",
	"Email":    "A valid email is required.",
}

// UserService manages user accounts; every operation requires the
// user-management capability.
type UserService struct {
	client *api.Client
	sess   Sessioner
}

func NewUserService(client *api.Client, sess Sessioner) *UserService {
	return &UserService{client: client, sess: sess}
}

// List fetches users, optionally filtered by role.
func (s *UserService) List(ctx context.Context, params api.Params) ([]models.User, *api.PageInfo, error) {
	if !s.sess.HasPermission(models.PermManageUsers) {
		return nil, nil, ErrPermissionDenied
	}
	raw, err := s.client.Get(ctx, "/api/v1/users", params)
	if err != nil {
		return nil, nil, err
	}
	return api.DecodeList[models.User](raw)
}

// Create provisions a new account. A username is mandatory because the
// initial password is derived from it and handed to the user out of band.
func (s *UserService) Create(ctx context.Context, input UserInput) (models.User, error) {
	if !s.sess.HasPermission(models.PermManageUsers) {
		return models.User{}, ErrPermissionDenied
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return models.User{}, &ValidationError{Message: "Username is required to create a user."}
	}
	if err := checkInput(input, userMessages); err != nil {
		return models.User{}, err
	}
	input.Password = input.Username + "123"
	raw, err := s.client.Post(ctx, "/api/v1/users", input)
	if err != nil {
		return models.User{}, err
	}
	return api.DecodeOne[models.User](raw)
}

// Update edits an existing account. The password is never sent on update.
func (s *UserService) Update(ctx context.Context, id int64, input UserInput) (models.User, error) {
	if !s.sess.HasPermission(models.PermManageUsers) {
		return models.User{}, ErrPermissionDenied
	}
	if err := checkInput(input, userMessages); err != nil {
		return models.User{}, err
	}
	input.Password = ""
	raw, err := s.client.Put(ctx, fmt.Sprintf("/api/v1/users/%d", id), input)
	if err != nil {
		return models.User{}, err
	}
	return api.DecodeOne[models.User](raw)
}

// Deactivate retires an account. The backend soft-deletes: the record
// stays, the active flag drops.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	if !s.sess.HasPermission(models.PermManageUsers) {
		return ErrPermissionDenied
	}
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/v1/users/%d", id))
	return err
}
