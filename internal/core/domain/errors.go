package domain

import "errors"

// Sentinel errors for the auth and catalog flows. Services return these (or
// wrap them) so callers can branch with errors.Is; the API layer owns the
// mapping to HTTP status codes and client-facing messages.
var (
	// ErrValidation covers any input that fails shape checks or matches an
	// injection pattern. Wrap it in a ValidationError to carry field detail.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned for both "no such user" and "wrong
	// password" so a caller cannot probe which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification failures. Distinct internally for logs and metrics;
	// the API layer collapses all four to one generic unauthorized response.
	ErrTokenMissing   = errors.New("token missing")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")

	ErrAccountInactive   = errors.New("account inactive")
	ErrInsufficientRole  = errors.New("insufficient role")
	ErrDuplicateIdentity = errors.New("username or email already exists")
	ErrTooManyAttempts   = errors.New("too many failed login attempts")
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")

	// ErrInfrastructure marks a dependency failure (store unreachable, query
	// timeout). Never conflated with an authentication outcome: callers must
	// be able to tell "access denied" from "system degraded".
	ErrInfrastructure = errors.New("infrastructure unavailable")
)

// ValidationError attaches per-field reasons to a validation failure. It
// unwraps to ErrValidation so handlers can treat all input failures alike.
type ValidationError struct {
	Details map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Details: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add records another failed field and returns the receiver for chaining.
func (e *ValidationError) Add(field, reason string) *ValidationError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[field] = reason
	return e
}
