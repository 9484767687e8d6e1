package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
)

// RequireRole authenticates the request and then demands an exact role
// match. Roles carry no hierarchy: an admin is not implicitly a moderator.
func RequireRole(auth ports.AuthService, role domain.Role) echo.MiddlewareFunc {
	return RequireAnyRole(auth, role)
}

// RequireAnyRole authenticates the request and then checks that the
// identity's role is a member of the allowed set.
func RequireAnyRole(auth ports.AuthService, roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	authGate := RequireAuth(auth)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authGate(func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.ErrInsufficientRole
			}
			return next(c)
		})
	}
}
