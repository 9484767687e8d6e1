package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/strumline/catalog-api/internal/api/metrics"
	"github.com/strumline/catalog-api/internal/api/middleware"
	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
)

// AuthHandler exposes registration, login and the authenticated-identity
// endpoint. The login limiter is advisory plumbing: when the backing store is
// down the handler fails open rather than locking everyone out.
type AuthHandler struct {
	auth    ports.AuthService
	limiter ports.LoginLimiter
	log     zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, limiter ports.LoginLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, log: log}
}

type registerRequest struct {
	Username  string `json:"username"   validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Role      string `json:"role"       validate:"required,oneof=admin customer moderator"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password"          validate:"required"`
}

// authResponse never carries the credential hash: domain.User excludes it
// from serialization.
type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new user account and returns a token bound to it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		RemoteIP:  c.RealIP(),
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		noteGuardRejections(err)
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// Login authenticates by username or email and returns a fresh token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	throttleKey := strings.ToLower(req.UsernameOrEmail)
	if h.limiter != nil && h.limiter.TooManyFailures(ctx, throttleKey) {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return domain.ErrTooManyAttempts
	}

	result, err := h.auth.Login(ctx, ports.LoginInput{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
		RemoteIP:        c.RealIP(),
	})
	if err != nil {
		if h.limiter != nil && errors.Is(err, domain.ErrInvalidCredentials) {
			h.limiter.RecordFailure(ctx, throttleKey)
		}
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	if h.limiter != nil {
		h.limiter.Reset(ctx, throttleKey)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// Me returns the identity resolved by the access gate.
//
// @Summary      Current authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrTokenMissing
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}

func registerOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return "duplicate"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	default:
		return "error"
	}
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	default:
		return "error"
	}
}

// noteGuardRejections feeds the per-field rejection counter when the service
// turned down guard-checked input.
func noteGuardRejections(err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		for field := range ve.Details {
			metrics.GuardRejectionsTotal.WithLabelValues(field).Inc()
		}
	}
}
