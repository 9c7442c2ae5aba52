package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionTTL bounds both the cookie max-age and the store-side lifetime of a
// session record. There is no additional expiry check on read.
const SessionTTL = 24 * time.Hour

// Session grants continued access after a successful login. The ID is the
// opaque token carried by the sessionId cookie; it maps to exactly one user
// until the record is deleted.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionID returns a fresh 256-bit random token, hex encoded. The entropy
// makes collisions between concurrently issued sessions a non-concern.
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
