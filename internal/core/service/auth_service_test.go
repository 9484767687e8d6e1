package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/strumline/catalog-api/internal/auth/password"
	"github.com/strumline/catalog-api/internal/auth/token"
	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
	// failWith, when set, makes every call return it (simulates an outage).
	failWith error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, value string) (*domain.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Username == value || u.Email == value {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type captureSink struct {
	events []domain.AuditEvent
}

func (s *captureSink) Record(e domain.AuditEvent) { s.events = append(s.events, e) }

func newTestAuthService(repo *stubUserRepo, ttl time.Duration) (*AuthService, *captureSink) {
	sink := &captureSink{}
	hasher := password.New(bcrypt.MinCost, zerolog.Nop())
	codec := token.New("test-secret", "catalog-api", ttl)
	return NewAuthService(repo, hasher, codec, sink, zerolog.Nop()), sink
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "Secret123",
		FirstName: "Alice",
		LastName:  "Archer",
		Role:      "customer",
	}
}

func TestAuthService_RegisterLoginValidate_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, time.Hour)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Token == "" {
		t.Fatal("Register must issue a token")
	}
	if reg.User.PasswordHash == "Secret123" {
		t.Fatal("password must be hashed before persistence")
	}

	login, err := svc.Login(ctx, ports.LoginInput{UsernameOrEmail: "alice", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := svc.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if user.ID != reg.User.ID {
		t.Errorf("token resolved to %q, want %q", user.ID, reg.User.ID)
	}

	// Email works as the login identifier too.
	if _, err := svc.Login(ctx, ports.LoginInput{UsernameOrEmail: "alice@example.com", Password: "Secret123"}); err != nil {
		t.Fatalf("login by email: %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, time.Hour)

	cases := []struct {
		name   string
		mutate func(*ports.RegisterInput)
		field  string
	}{
		{"injection username", func(in *ports.RegisterInput) { in.Username = "alice'; DROP TABLE users; --" }, "username"},
		{"bad email", func(in *ports.RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"short password", func(in *ports.RegisterInput) { in.Password = "short" }, "password"},
		{"unknown role", func(in *ports.RegisterInput) { in.Role = "superuser" }, "role"},
		{"empty first name", func(in *ports.RegisterInput) { in.FirstName = "" }, "first_name"},
	}

	for _, tc := range cases {
		in := registerInput()
		tc.mutate(&in)
		_, err := svc.Register(context.Background(), in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation failure, got %v", tc.name, err)
		}
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected *ValidationError, got %T", tc.name, err)
		}
		if _, ok := ve.Details[tc.field]; !ok {
			t.Errorf("%s: details missing field %q: %v", tc.name, tc.field, ve.Details)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	// Same username, different email.
	in := registerInput()
	in.Email = "alice2@example.com"
	if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthService_Login_GenericErrorForUnknownAndWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, errUnknown := svc.Login(ctx, ports.LoginInput{UsernameOrEmail: "ghost", Password: "Secret123"})
	_, errWrongPw := svc.Login(ctx, ports.LoginInput{UsernameOrEmail: "alice", Password: "WrongPass1"})

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown identifier: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	// Both failures must be the identical error value, not two messages a
	// caller could tell apart.
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, time.Hour)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	repo.users[reg.User.ID].IsActive = false

	if _, err := svc.Login(ctx, ports.LoginInput{UsernameOrEmail: "alice", Password: "Secret123"}); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthService_ValidateToken_DeactivatedAfterIssue(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, time.Hour)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Token is well signed and unexpired, but the subject got deactivated.
	repo.users[reg.User.ID].IsActive = false
	if _, err := svc.ValidateToken(ctx, reg.Token); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}

	// Or deleted outright.
	delete(repo.users, reg.User.ID)
	if _, err := svc.ValidateToken(ctx, reg.Token); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, 0) // ttl 0: tokens are born expired
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.ValidateToken(ctx, reg.Token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_ValidateToken_StoreOutageIsNotDenial(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, time.Hour)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	repo.failWith = errors.New("connection refused")
	_, err = svc.ValidateToken(ctx, reg.Token)
	if !errors.Is(err, domain.ErrInfrastructure) {
		t.Fatalf("expected ErrInfrastructure, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatal("store outage must not present as an authentication failure")
	}
}

func TestAuthService_AuditTrail(t *testing.T) {
	repo := newStubUserRepo()
	svc, sink := newTestAuthService(repo, time.Hour)
	ctx := context.Background()

	_, _ = svc.Register(ctx, registerInput())
	_, _ = svc.Login(ctx, ports.LoginInput{UsernameOrEmail: "alice", Password: "WrongPass1"})
	_, _ = svc.Login(ctx, ports.LoginInput{UsernameOrEmail: "alice", Password: "Secret123"})

	if len(sink.events) != 3 {
		t.Fatalf("expected 3 audit events, got %d", len(sink.events))
	}
	if sink.events[0].Action != domain.AuditRegister || !sink.events[0].Success {
		t.Errorf("event 0 = %+v, want successful register", sink.events[0])
	}
	if sink.events[1].Action != domain.AuditLogin || sink.events[1].Success {
		t.Errorf("event 1 = %+v, want failed login", sink.events[1])
	}
	if sink.events[2].Action != domain.AuditLogin || !sink.events[2].Success {
		t.Errorf("event 2 = %+v, want successful login", sink.events[2])
	}
}
