package ports

import (
	"context"

	"github.com/minimart/pos-api/internal/core/domain"
)

// AuditRepository persists login-attempt audit records.
type AuditRepository interface {
	Insert(ctx context.Context, attempt *domain.LoginAttempt) error
}

// LoginAuditRecorder accepts audit records for asynchronous persistence.
// Record must not block the caller beyond queue backpressure.
type LoginAuditRecorder interface {
	Record(attempt domain.LoginAttempt)
}
