package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/strumline/catalog-api/internal/auth/password"
	"github.com/strumline/catalog-api/internal/auth/token"
	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
	"github.com/strumline/catalog-api/internal/guard"
)

const (
	minPasswordLen = 8
	maxPasswordLen = password.MaxPasswordLen
)

// AuthService implements ports.AuthService: registration, login and token
// validation against the user store. It holds only immutable collaborators
// fixed at construction and is safe for concurrent use.
type AuthService struct {
	repo   ports.UserRepository
	hasher *password.Hasher
	codec  *token.Codec
	audit  ports.AuditSink
	log    zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher *password.Hasher,
	codec *token.Codec,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = noopAudit{}
	}
	return &AuthService{repo: repo, hasher: hasher, codec: codec, audit: audit, log: log}
}

type noopAudit struct{}

func (noopAudit) Record(domain.AuditEvent) {}

// Register validates the raw input, hashes the password, persists the new
// identity and issues a token bound to it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	clean, err := validateRegisterInput(in)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.NewValidationError("password", err.Error())
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     clean.username,
		Email:        clean.email,
		FirstName:    clean.firstName,
		LastName:     clean.lastName,
		PasswordHash: hash,
		Role:         clean.role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, infraErr("create user", err)
	}

	tkn, err := s.codec.Issue(created.ID, created.Username, created.Role)
	if err != nil {
		return nil, infraErr("issue token", err)
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditRegister,
		SubjectID: created.ID,
		Username:  created.Username,
		Success:   true,
		RemoteIP:  in.RemoteIP,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")

	return &ports.AuthResult{User: created, Token: tkn}, nil
}

// Login authenticates by username or email. Unknown identifier and wrong
// password return the identical generic error, and both paths run a bcrypt
// comparison so they cost the same.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	if in.UsernameOrEmail == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, in.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.VerifyDummy(in.Password)
			s.recordLogin("", in, false, "unknown identifier")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, infraErr("find user", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.recordLogin(user.ID, in, false, "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.recordLogin(user.ID, in, false, "account inactive")
		return nil, domain.ErrAccountInactive
	}

	tkn, err := s.codec.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, infraErr("issue token", err)
	}

	s.recordLogin(user.ID, in, true, "")
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")

	return &ports.AuthResult{User: user, Token: tkn}, nil
}

// ValidateToken verifies the raw token and re-fetches the subject so that a
// deactivated or deleted account invalidates outstanding tokens immediately.
// The role and active flag baked into the claims are never trusted.
func (s *AuthService) ValidateToken(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		s.recordRejection("", err)
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordRejection(claims.Subject, domain.ErrUserNotFound)
			return nil, domain.ErrUserNotFound
		}
		// Deliberately not an auth failure: the caller must be able to tell
		// "access denied" from "store degraded".
		return nil, infraErr("refetch subject", err)
	}

	if !user.IsActive {
		s.recordRejection(user.ID, domain.ErrAccountInactive)
		return nil, domain.ErrAccountInactive
	}

	return user, nil
}

func (s *AuthService) recordLogin(subjectID string, in ports.LoginInput, success bool, reason string) {
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLogin,
		SubjectID: subjectID,
		Username:  in.UsernameOrEmail,
		Success:   success,
		Reason:    reason,
		RemoteIP:  in.RemoteIP,
		Timestamp: time.Now().UTC(),
	})
}

func (s *AuthService) recordRejection(subjectID string, cause error) {
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditTokenRejected,
		SubjectID: subjectID,
		Success:   false,
		Reason:    cause.Error(),
		Timestamp: time.Now().UTC(),
	})
}

// infraErr wraps a dependency failure so errors.Is(err, ErrInfrastructure)
// holds while the cause stays available for internal logs.
func infraErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInfrastructure, op, err)
}

type cleanRegisterInput struct {
	username  string
	email     string
	firstName string
	lastName  string
	role      domain.Role
}

// validateRegisterInput runs every raw field through the guard and collects
// all failures into one ValidationError, so a client sees everything wrong
// with the submission at once.
func validateRegisterInput(in ports.RegisterInput) (*cleanRegisterInput, error) {
	var (
		clean cleanRegisterInput
		ve    *domain.ValidationError
		ok    bool
	)
	fail := func(field, reason string) {
		if ve == nil {
			ve = domain.NewValidationError(field, reason)
			return
		}
		ve.Add(field, reason)
	}

	if clean.username, ok = guard.ValidateAndSanitize(in.Username, guard.Identifier); !ok {
		fail("username", "must be 1-50 letters, digits, underscore or hyphen")
	}
	if clean.email, ok = guard.ValidateAndSanitize(in.Email, guard.Email); !ok {
		fail("email", "must be a valid email address")
	}
	if clean.firstName, ok = guard.ValidateAndSanitize(in.FirstName, guard.ShortText); !ok {
		fail("first_name", "must be 1-100 printable characters")
	}
	if clean.lastName, ok = guard.ValidateAndSanitize(in.LastName, guard.ShortText); !ok {
		fail("last_name", "must be 1-100 printable characters")
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		fail("password", fmt.Sprintf("must be %d-%d characters", minPasswordLen, maxPasswordLen))
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		fail("role", "must be one of: admin, customer, moderator")
	}
	clean.role = role

	if ve != nil {
		return nil, ve
	}
	return &clean, nil
}
