// Package middleware implements the per-request access gate: bearer-token
// authentication and role-based route gating. The gates hold no cross-request
// state; everything they resolve lives in the current echo context.
package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/strumline/catalog-api/internal/api/metrics"
	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
)

// userContextKey is where RequireAuth stores the resolved identity. Keep it
// package-scoped so handlers must go through CurrentUser.
const userContextKey = "auth.user"

// RequireAuth extracts the bearer token, validates it through the auth
// service and attaches the fresh identity snapshot to the request context.
// Every authentication failure collapses to the same 401 at the boundary;
// only a store failure surfaces differently (503), so clients can tell
// "denied" from "degraded".
func RequireAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
				return err
			}

			user, err := auth.ValidateToken(c.Request().Context(), raw)
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues(validationLabel(err)).Inc()
				if errors.Is(err, domain.ErrInfrastructure) {
					return err
				}
				// Expired, forged, malformed, unknown subject and inactive
				// account all look identical to the caller.
				return domain.ErrTokenMalformed
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by RequireAuth, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok && user != nil
}

// bearerToken parses `Authorization: Bearer <token>`. The scheme match is
// case-insensitive per RFC 7235; anything else is a missing token.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrTokenMissing
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", domain.ErrTokenMissing
	}
	return parts[1], nil
}

func validationLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrAccountInactive):
		return "subject_gone"
	case errors.Is(err, domain.ErrInfrastructure):
		return "error"
	default:
		return "malformed"
	}
}
