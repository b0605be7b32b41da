package core

import (
	"context"
	"errors"
	"net"
)

// ErrorKind classifies a failure for presentation purposes.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindAuthorization
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindAuthorization:
		return "authorization"
	case KindNetwork:
		return "network"
	default:
		return "internal"
	}
}

// Retryable reports whether the failure is eligible for a user-triggered
// retry. Only connectivity problems qualify.
func (k ErrorKind) Retryable() bool {
	return k == KindNetwork
}

// Classify maps any error to its presentation category.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}

	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return KindValidation
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return KindNetwork
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrEmailNotVerified),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrNotSignedIn):
		return KindAuth
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrAdminOnly):
		return KindAuthorization
	}

	return KindInternal
}

// Translate maps an error to a user-facing message. The unconfirmed-email
// case is distinguished so callers can trigger a dedicated "please verify"
// flow rather than a generic failure.
func Translate(err error) (ErrorKind, string) {
	kind := Classify(err)

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return kind, "Incorrect email or password. Please try again."
	case errors.Is(err, ErrUserExists):
		return kind, "An account with this email already exists. Try signing in instead."
	case errors.Is(err, ErrEmailNotVerified):
		return kind, "Please verify your email address before signing in. Check your inbox for the confirmation link."
	case errors.Is(err, ErrRateLimited):
		return kind, "Too many attempts. Please wait a moment and try again."
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrInvalidToken):
		return kind, "Your session has expired. Please sign in again."
	case errors.Is(err, ErrNotSignedIn):
		return kind, "Please sign in to manage your tools."
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrAdminOnly):
		return kind, "You don't have permission to change this tool."
	case errors.Is(err, ErrToolNotFound):
		return kind, "This tool no longer exists. It may have been removed in another session."
	}

	switch kind {
	case KindValidation:
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			return kind, validationMessage(fieldErr)
		}
		return kind, "Please check the highlighted fields and try again."
	case KindNetwork:
		return kind, "Connection problem. Please check your network and retry."
	default:
		return kind, "Something went wrong. Please try again."
	}
}

func validationMessage(e *FieldError) string {
	switch {
	case errors.Is(e.Err, ErrNameRequired):
		return "Tool name is required."
	case errors.Is(e.Err, ErrNameTooLong):
		return "Tool name is too long."
	case errors.Is(e.Err, ErrURLRequired):
		return "Tool URL is required."
	case errors.Is(e.Err, ErrURLInvalid):
		return "Please enter a valid http(s) URL."
	case errors.Is(e.Err, ErrURLTooLong):
		return "Tool URL is too long."
	case errors.Is(e.Err, ErrDescriptionTooLong):
		return "Description is too long."
	case errors.Is(e.Err, ErrInvalidCategory):
		return "Please pick one of the listed categories."
	case errors.Is(e.Err, ErrEmailRequired), errors.Is(e.Err, ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(e.Err, ErrPasswordRequired):
		return "Password is required."
	case errors.Is(e.Err, ErrPasswordTooShort):
		return "Password is too short."
	case errors.Is(e.Err, ErrPasswordTooLong):
		return "Password is too long."
	}
	return "Please check the highlighted fields and try again."
}
