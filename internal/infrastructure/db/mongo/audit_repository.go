package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

const loginAttemptsCollection = "login_attempts"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// Insert persists a login attempt to the login_attempts audit collection.
func (r *AuditRepository) Insert(ctx context.Context, attempt *domain.LoginAttempt) error {
	doc := bson.M{
		"username":   attempt.Username,
		"success":    attempt.Success,
		"created_at": attempt.CreatedAt.UTC(),
		"written_at": time.Now().UTC(),
	}
	if attempt.Reason != "" {
		doc["reason"] = attempt.Reason
	}
	if attempt.RemoteIP != "" {
		doc["remote_ip"] = attempt.RemoteIP
	}

	if _, err := r.db.Collection(loginAttemptsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}
	return nil
}
