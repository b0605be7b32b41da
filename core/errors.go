package core

import "errors"

// Authentication Related Errors
var (
	// User errors
	ErrUserExists         = errors.New("user already exists")       // 409 Conflict
	ErrUserNotFound       = errors.New("user not found")            // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized
	ErrEmailNotVerified   = errors.New("email not verified")        // 403 Forbidden
	ErrRateLimited        = errors.New("too many attempts")         // 429 Too Many Requests
)

// Session errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrInvalidToken      = errors.New("invalid session token")        // 401
	ErrSessionNotFound   = errors.New("session not found")            // 401
	ErrSessionExpired    = errors.New("session expired")              // 401
	ErrNotSignedIn       = errors.New("not signed in")                // 401
	ErrCacheNotFound     = errors.New("session not found in cache")
)

// Authorization errors. These should be unreachable through normal use
// (mutation affordances are never rendered for non-owned tools) but the
// backend may still reject after stale state in another client.
var (
	ErrNotOwner  = errors.New("tool does not belong to the current user")  // 403
	ErrAdminOnly = errors.New("operation requires an administrative role") // 403
)

// Tool errors
var (
	ErrToolNotFound = errors.New("tool not found") // 404
)

// Validation errors (client input). These never reach the backend.
var (
	ErrInvalidAuthHeader  = errors.New("invalid authorization format, expected 'Bearer <token>'") // 401
	ErrEmailRequired      = errors.New("email is required")                                       // 400
	ErrInvalidEmail       = errors.New("invalid email format")                                    // 400
	ErrPasswordRequired   = errors.New("password is required")                                    // 400
	ErrPasswordTooShort   = errors.New("password is too short")                                   // 400
	ErrPasswordTooLong    = errors.New("password is too long")                                    // 400
	ErrNameRequired       = errors.New("tool name is required")                                   // 400
	ErrNameTooLong        = errors.New("tool name is too long")                                   // 400
	ErrURLRequired        = errors.New("tool url is required")                                    // 400
	ErrURLInvalid         = errors.New("tool url is not a valid http(s) address")                 // 400
	ErrURLTooLong         = errors.New("tool url is too long")                                    // 400
	ErrDescriptionTooLong = errors.New("tool description is too long")                            // 400
	ErrInvalidCategory    = errors.New("unknown tool category")                                   // 400
)

// Concurrency guard errors
var (
	// ErrOperationInFlight is returned when a mutation is triggered while
	// the same mutation is still outstanding. The disabled control is the
	// mutual-exclusion mechanism; there is no queue.
	ErrOperationInFlight = errors.New("operation already in flight")
)

// Config errors (misuse of the library, not runtime failures)
var (
	ErrStorageRequired      = errors.New("storage adapter is required") // 500
	ErrAuthProviderRequired = errors.New("auth provider is required")   // 500
	ErrSecretRequired       = errors.New("secret is required")          // 500
	ErrSecretTooShort       = errors.New("secret too short")            // 500
	ErrPresenterRequired    = errors.New("presenter is required")       // 500
)

var (
	ErrNotImplemented = errors.New("not implemented") // 501
)
