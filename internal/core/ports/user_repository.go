package ports

import (
	"context"

	"github.com/strumline/catalog-api/internal/core/domain"
)

// UserRepository defines persistence operations for identities. Find methods
// return domain.ErrUserNotFound when no row matches; any other error means
// the store itself failed.
type UserRepository interface {
	// Create persists a new identity. A username or email collision returns
	// domain.ErrDuplicateIdentity.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByUsernameOrEmail matches the value against both the username and
	// the email column, so login works with either.
	FindByUsernameOrEmail(ctx context.Context, value string) (*domain.User, error)
}
