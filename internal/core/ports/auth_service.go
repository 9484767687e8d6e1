package ports

import (
	"context"

	"github.com/strumline/catalog-api/internal/core/domain"
)

// RegisterInput carries the raw registration fields exactly as submitted;
// AuthService owns their validation and sanitization.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	RemoteIP  string
}

// LoginInput carries raw login credentials. UsernameOrEmail is matched
// against both columns.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
	RemoteIP        string
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService orchestrates registration, login and token validation. Expected
// outcomes (bad credentials, expired tokens, inactive accounts) come back as
// domain sentinel errors, never as panics; store failures are wrapped in
// domain.ErrInfrastructure so callers can tell denial from degradation.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)

	// ValidateToken verifies the raw token and re-fetches the subject from
	// the user store. Role and active flag inside the token are never
	// trusted; a vanished or deactivated subject yields an error even when
	// the signature and expiry are valid.
	ValidateToken(ctx context.Context, raw string) (*domain.User, error)
}
