package core

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Field limits for user-editable tool data.
const (
	MaxNameLength        = 100
	MaxURLLength         = 500
	MaxDescriptionLength = 500

	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError carries the offending field name so callers can surface the
// message inline next to the input instead of as a generic failure.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// ValidateEmail checks basic email shape. Deliverability is the backend's
// problem.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fieldErr("email", ErrEmailRequired)
	}
	if !emailPattern.MatchString(email) {
		return fieldErr("email", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword enforces length bounds only. Strength policy belongs to
// the credential provider.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return fieldErr("password", ErrPasswordRequired)
	case len(password) < MinPasswordLength:
		return fieldErr("password", ErrPasswordTooShort)
	case len(password) > MaxPasswordLength:
		return fieldErr("password", ErrPasswordTooLong)
	}
	return nil
}

// ValidateToolInput checks a tool submission before any network call.
// The first failing field wins.
func ValidateToolInput(input ToolInput) error {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return fieldErr("name", ErrNameRequired)
	case len(name) > MaxNameLength:
		return fieldErr("name", ErrNameTooLong)
	}

	rawURL := strings.TrimSpace(input.URL)
	switch {
	case rawURL == "":
		return fieldErr("url", ErrURLRequired)
	case len(rawURL) > MaxURLLength:
		return fieldErr("url", ErrURLTooLong)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fieldErr("url", ErrURLInvalid)
	}

	if len(input.Description) > MaxDescriptionLength {
		return fieldErr("description", ErrDescriptionTooLong)
	}

	if !input.Category.Valid() {
		return fieldErr("category", ErrInvalidCategory)
	}

	return nil
}
