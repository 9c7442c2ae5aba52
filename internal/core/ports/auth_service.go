package ports

import (
	"context"

	"github.com/minimart/pos-api/internal/core/domain"
)

// RegisterInput carries all data needed to create a new account.
type RegisterInput struct {
	Username string
	Password string
	Role     string
}

// AuthService defines the authentication engine and the authorization gate
// consumed by the HTTP boundary.
type AuthService interface {
	// Authenticate verifies credentials and maintains the progressive-lockout
	// state. On success it returns the sanitized user. Failures are
	// domain.ErrInvalidCredentials or *domain.AccountLockedError.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	IssueSession(ctx context.Context, userID string) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// ResolveActor maps a session id to its user; a miss on either lookup
	// yields domain.ErrUnauthorized.
	ResolveActor(ctx context.Context, sessionID string) (*domain.User, error)
	// ResetPassword re-hashes the target account's password and clears its
	// failure-tracking state. Admin-gated at the boundary.
	ResetPassword(ctx context.Context, username, newPassword string) error
	// ListAccounts returns sanitized users whose role is on the fixed
	// allow-list (staff, supplier). Admin accounts are never included.
	ListAccounts(ctx context.Context) ([]*domain.User, error)
}
