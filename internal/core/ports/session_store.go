package ports

import (
	"context"
	"time"

	"github.com/minimart/pos-api/internal/core/domain"
)

// SessionStore defines persistence for active sessions. Validity on read is
// presence in the store; the TTL passed to Put is the only expiry mechanism.
type SessionStore interface {
	Put(ctx context.Context, session *domain.Session, ttl time.Duration) error
	// Get returns domain.ErrSessionNotFound when the id is absent or expired.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is idempotent: deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
