package services

import (
	"context"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// RegisterInput is a self-service account registration.
type RegisterInput struct {
	FullName           string `json:"fullName" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Department         string `json:"department,omitempty"`
	Role               string `json:"role,omitempty"`
}

var registerMessages = map[string]string{
	"FullName": "Full name, email, and password are required.",
	"Email":    "Full name, email, and password are required.",
	"Password": "Full name, email, and password are required.",
}

// ChangePasswordInput rotates the caller's password. The confirmation
// match is checked client-side before any request.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	Confirm         string `json:"-"`
}

// AuthService covers the account endpoints that do not touch session
// state; login itself lives with the session manager.
type AuthService struct {
	client *api.Client
}

func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if err := checkInput(input, registerMessages); err != nil {
		return models.User{}, err
	}
	raw, err := s.client.Post(ctx, "/api/v1/auth/register", input)
	if err != nil {
		return models.User{}, err
	}
	return api.DecodeOne[models.User](raw)
}

// ChangePassword rotates the caller's password.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if err := checkInput(input, map[string]string{
		"CurrentPassword": "Current password is required.",
		"NewPassword":     "New password must be at least 8 characters.",
	}); err != nil {
		return err
	}
	if input.NewPassword != input.Confirm {
		return &ValidationError{Message: "Password confirmation does not match."}
	}
	_, err := s.client.Post(ctx, "/api/v1/auth/change-password", input)
	return err
}
