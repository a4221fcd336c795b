package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is a pre-submission failure detected client-side, before
// any network round trip. The message is already user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// checkInput runs struct validation and maps the first failure to its
// user-facing message. Fields without an entry in messages fall back to a
// generic "<field> is invalid".
func checkInput(input any, messages map[string]string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	first := fieldErrs[0]
	if msg, ok := messages[first.Field()]; ok {
		return &ValidationError{Message: msg}
	}
	return &ValidationError{Message: fmt.Sprintf("%s is invalid", first.Field())}
}
