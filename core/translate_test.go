package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindInternal},
		{"field error", &FieldError{Field: "name", Err: ErrNameRequired}, KindValidation},
		{"invalid credentials", ErrInvalidCredentials, KindAuth},
		{"wrapped credentials", fmt.Errorf("sign in: %w", ErrInvalidCredentials), KindAuth},
		{"duplicate user", ErrUserExists, KindAuth},
		{"unverified email", ErrEmailNotVerified, KindAuth},
		{"expired session", ErrSessionExpired, KindAuth},
		{"not signed in", ErrNotSignedIn, KindAuth},
		{"not owner", ErrNotOwner, KindAuthorization},
		{"admin only", ErrAdminOnly, KindAuthorization},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"canceled", context.Canceled, KindNetwork},
		{"dns failure", &net.DNSError{Err: "no such host"}, KindNetwork},
		{"unknown", errors.New("disk full"), KindInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.want {
				t.Errorf("Classify(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if !KindNetwork.Retryable() {
		t.Error("network failures should be retryable")
	}
	for _, kind := range []ErrorKind{KindInternal, KindValidation, KindAuth, KindAuthorization} {
		if kind.Retryable() {
			t.Errorf("%v should not be retryable", kind)
		}
	}
}

func TestTranslateDistinguishesUnverifiedEmail(t *testing.T) {
	_, credentialsMsg := Translate(ErrInvalidCredentials)
	kind, verifyMsg := Translate(ErrEmailNotVerified)

	if kind != KindAuth {
		t.Errorf("expected auth kind, got %v", kind)
	}
	if verifyMsg == credentialsMsg {
		t.Error("the unverified-email case must not look like a wrong password")
	}
	if !strings.Contains(strings.ToLower(verifyMsg), "verify") {
		t.Errorf("message should ask for verification, got %q", verifyMsg)
	}
}

func TestTranslateFieldErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&FieldError{Field: "name", Err: ErrNameRequired}, "Tool name is required."},
		{&FieldError{Field: "url", Err: ErrURLInvalid}, "Please enter a valid http(s) URL."},
		{&FieldError{Field: "category", Err: ErrInvalidCategory}, "Please pick one of the listed categories."},
	}

	for _, test := range tests {
		kind, msg := Translate(test.err)
		if kind != KindValidation {
			t.Errorf("Translate(%v) kind = %v, want validation", test.err, kind)
		}
		if msg != test.want {
			t.Errorf("Translate(%v) = %q, want %q", test.err, msg, test.want)
		}
	}
}

func TestTranslateNeverEmpty(t *testing.T) {
	errs := []error{
		nil,
		errors.New("something odd"),
		ErrToolNotFound,
		ErrNotOwner,
		context.DeadlineExceeded,
	}
	for _, err := range errs {
		if _, msg := Translate(err); msg == "" {
			t.Errorf("Translate(%v) produced an empty message", err)
		}
	}
}
