package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
)

// stubAuth resolves one known token and fails everything else with err.
type stubAuth struct {
	token string
	user  *domain.User
	err   error
}

func (s *stubAuth) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	panic("not used")
}

func (s *stubAuth) Login(context.Context, ports.LoginInput) (*ports.AuthResult, error) {
	panic("not used")
}

func (s *stubAuth) ValidateToken(_ context.Context, raw string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if raw == s.token {
		return s.user, nil
	}
	return nil, domain.ErrTokenMalformed
}

func testUser(role domain.Role) *domain.User {
	return &domain.User{ID: "user-1", Username: "alice", Role: role, IsActive: true}
}

func runGate(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *domain.User, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.User
	handler := mw(func(c echo.Context) error {
		seen, _ = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})
	return rec, seen, handler(c)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	auth := &stubAuth{token: "good-token", user: testUser(domain.RoleCustomer)}

	rec, seen, err := runGate(t, RequireAuth(auth), "Bearer good-token")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.ID != "user-1" {
		t.Fatalf("identity not attached to context: %+v", seen)
	}
}

func TestRequireAuth_SchemeIsCaseInsensitive(t *testing.T) {
	auth := &stubAuth{token: "good-token", user: testUser(domain.RoleCustomer)}

	if _, _, err := runGate(t, RequireAuth(auth), "bearer good-token"); err != nil {
		t.Fatalf("lowercase scheme must be accepted: %v", err)
	}
}

func TestRequireAuth_RejectsBadHeaders(t *testing.T) {
	auth := &stubAuth{token: "good-token", user: testUser(domain.RoleCustomer)}
	gate := RequireAuth(auth)

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer "} {
		_, seen, err := runGate(t, gate, header)
		if err == nil {
			t.Fatalf("header %q: expected rejection", header)
		}
		if seen != nil {
			t.Fatalf("header %q: next handler must not run", header)
		}
	}
}

func TestRequireAuth_CollapsesAuthFailures(t *testing.T) {
	// Every flavor of token failure surfaces as the same error value, so the
	// HTTP boundary renders one indistinguishable 401.
	for _, cause := range []error{
		domain.ErrTokenExpired,
		domain.ErrTokenSignature,
		domain.ErrTokenMalformed,
		domain.ErrUserNotFound,
		domain.ErrAccountInactive,
	} {
		auth := &stubAuth{err: cause}
		_, _, err := runGate(t, RequireAuth(auth), "Bearer whatever")
		if err != domain.ErrTokenMalformed {
			t.Fatalf("cause %v: gate returned %v, want the generic token error", cause, err)
		}
	}
}

func TestRequireAuth_InfrastructureFailurePassesThrough(t *testing.T) {
	auth := &stubAuth{err: domain.ErrInfrastructure}

	_, _, err := runGate(t, RequireAuth(auth), "Bearer whatever")
	if err != domain.ErrInfrastructure {
		t.Fatalf("store outage must surface as infrastructure failure, got %v", err)
	}
}
