package ports

import (
	"context"
	"time"

	"github.com/minimart/pos-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts (the credential store).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateLoginState overwrites the failure-tracking fields in a single
	// document write. A nil cooldownUntil clears any existing cooldown.
	UpdateLoginState(ctx context.Context, username string, attempts int, cooldownUntil *time.Time) error
	// UpdatePassword replaces the stored hash and resets the failure-tracking
	// fields, mirroring the invariant that a reset clears the counter.
	UpdatePassword(ctx context.Context, username string, passwordHash string) error
	// ListByRoles returns users whose role matches any of roles (case-insensitive).
	ListByRoles(ctx context.Context, roles []string) ([]*domain.User, error)
}
