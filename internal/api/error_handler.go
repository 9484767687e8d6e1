package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/strumline/catalog-api/internal/core/domain"
)

// errorEnvelope is the canonical error payload for every 4xx/5xx response.
type errorEnvelope struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	StatusCode int               `json:"statusCode"`
	Details    map[string]string `json:"details,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to deterministic HTTP status codes.
//   - Collapses every token-failure variant to one generic 401, so a caller
//     cannot distinguish expired from forged from missing.
//   - Logs unexpected errors internally without leaking details to the
//     client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		env := resolveError(err, log, c)
		env.Timestamp = time.Now().UTC()
		_ = c.JSON(env.StatusCode, env)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) errorEnvelope {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorEnvelope{
			Code:       http.StatusText(he.Code),
			Message:    fmt.Sprintf("%v", he.Message),
			StatusCode: he.Code,
		}
	}

	// Validation failures carry per-field detail to the client; nothing in
	// the details map ever echoes the rejected raw value back.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return errorEnvelope{
			Code:       "VALIDATION_FAILED",
			Message:    "one or more fields are invalid",
			StatusCode: http.StatusBadRequest,
			Details:    ve.Details,
		}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return envelope("VALIDATION_FAILED", "one or more fields are invalid", http.StatusBadRequest)

	case errors.Is(err, domain.ErrInvalidCredentials):
		return envelope("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized)

	// One generic message for every token failure, deliberately. A vanished
	// subject only surfaces here via a stale token, so it belongs with them.
	case errors.Is(err, domain.ErrTokenMissing),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenSignature),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAccountInactive):
		return envelope("UNAUTHORIZED", "authentication required", http.StatusUnauthorized)

	case errors.Is(err, domain.ErrInsufficientRole):
		return envelope("FORBIDDEN", "insufficient permissions", http.StatusForbidden)

	case errors.Is(err, domain.ErrDuplicateIdentity):
		return envelope("DUPLICATE_IDENTITY", "username or email already exists", http.StatusConflict)

	case errors.Is(err, domain.ErrTooManyAttempts):
		return envelope("TOO_MANY_ATTEMPTS", "too many failed login attempts, try again later", http.StatusTooManyRequests)

	case errors.Is(err, domain.ErrProductNotFound):
		return envelope("NOT_FOUND", "product not found", http.StatusNotFound)

	case errors.Is(err, domain.ErrInfrastructure):
		// Full cause goes to the log only; the client learns nothing about
		// which dependency failed or why.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("infrastructure failure")
		return envelope("SERVICE_UNAVAILABLE", "service temporarily unavailable", http.StatusServiceUnavailable)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return envelope("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
}

func envelope(code, message string, status int) errorEnvelope {
	return errorEnvelope{Code: code, Message: message, StatusCode: status}
}
