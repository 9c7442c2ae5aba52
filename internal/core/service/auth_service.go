package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

// AuthService implements authentication, session management and the
// role-gated admin operations.
//
// Concurrency note: the login failure counter is read, decided upon, then
// written back in separate store calls. Concurrent attempts for the same
// username can under-count; each write is still a single atomic document
// update so records never corrupt.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	sessionTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, sessionTTL time.Duration, logger zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = domain.SessionTTL
	}
	return &AuthService{users: users, sessions: sessions, sessionTTL: sessionTTL, logger: logger}
}

// Authenticate verifies credentials against the stored hash and maintains the
// progressive-lockout state. An unknown username and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now().UTC()
	if user.CooldownUntil != nil && user.CooldownUntil.After(now) {
		remainingMs := user.CooldownUntil.Sub(now).Milliseconds()
		return nil, &domain.AccountLockedError{RemainingSeconds: (remainingMs + 999) / 1000}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		if err := s.users.UpdateLoginState(ctx, username, 0, nil); err != nil {
			return nil, err
		}
		s.logger.Info().Str("username", username).Msg("login accepted")
		return user.Sanitized(), nil
	}

	// Lock on the third consecutive failure: the counter is compared before
	// the increment, so two prior failures plus this one trips the cooldown.
	if user.LoginAttempts >= domain.MaxLoginAttempts-1 {
		until := now.Add(domain.CooldownDuration)
		if err := s.users.UpdateLoginState(ctx, username, user.LoginAttempts+1, &until); err != nil {
			return nil, err
		}
		s.logger.Warn().Str("username", username).Time("until", until).Msg("account locked")
		return nil, &domain.AccountLockedError{Until: until}
	}

	if err := s.users.UpdateLoginState(ctx, username, user.LoginAttempts+1, nil); err != nil {
		return nil, err
	}
	return nil, domain.ErrInvalidCredentials
}

// IssueSession creates and persists a session for userID. The caller is
// responsible for setting the sessionId cookie with a matching max-age.
func (s *AuthService) IssueSession(ctx context.Context, userID string) (*domain.Session, error) {
	id, err := domain.NewSessionID()
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, session, s.sessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession revokes a session. Revoking an absent or already-revoked session
// succeeds.
func (s *AuthService) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Register creates a new account with a bcrypt-hashed password. The role
// defaults to staff and is stored lower-case.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := strings.ToLower(input.Role)
	if role == "" {
		role = domain.RoleStaff
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", created.Username).Str("role", created.Role).Msg("account registered")
	return created.Sanitized(), nil
}

// ResolveActor maps a session id to the owning user.
func (s *AuthService) ResolveActor(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// ResetPassword replaces the target user's password and clears any lockout
// state. Unknown targets surface domain.ErrUserNotFound.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, username, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Str("username", username).Msg("password reset")
	return nil
}

// ListAccounts returns sanitized staff and supplier accounts. Admin accounts
// never appear in the listing.
func (s *AuthService) ListAccounts(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.ListByRoles(ctx, domain.ListableRoles)
	if err != nil {
		return nil, err
	}
	sanitized := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if !domain.RoleListable(u.Role) {
			continue
		}
		sanitized = append(sanitized, u.Sanitized())
	}
	return sanitized, nil
}
