package service

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrInvalidCredentials    = errors.New("incorrect credentials")
	ErrInvalidLink           = errors.New("invalid verification link")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	ErrUnauthorized          = errors.New("authentication credentials were not provided")
	ErrInvalidToken          = errors.New("token is invalid or expired")
	ErrForbidden             = errors.New("you do not have permission to perform this action")
	ErrUserNotFound          = errors.New("user not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrReviewNotFound        = errors.New("review not found")
	ErrProductRequired       = errors.New("product is required")
	ErrResetTokenNotFound    = errors.New("password reset token is invalid or expired")
)

// ValidationError carries per-field messages for a rejected payload
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}

// checkFields runs the field rules and folds the failures into a
// ValidationError. It returns nil when every field passed.
func checkFields(fields validation.Errors) error {
	err := fields.Filter()
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	v := &ValidationError{Fields: make(map[string][]string, len(errs))}
	for field, ferr := range errs {
		v.Fields[field] = []string{ferr.Error()}
	}
	return v
}
