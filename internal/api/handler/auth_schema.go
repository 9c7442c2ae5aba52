package handler

import (
	"time"

	"github.com/minimart/pos-api/internal/core/domain"
)

// messageResponse is the envelope for plain confirmation messages.
type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username        string `json:"username"        validate:"required,min=3,max=32,alphanum"`
	Password        string `json:"password"        validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role"            validate:"omitempty,oneof=admin staff supplier"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"    validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	User    *domain.User    `json:"user"`
	Session sessionResponse `json:"session"`
}

type registerResponse struct {
	User *domain.User `json:"user"`
}

// LockedResponse renders an AccountLockedError the way the client expects:
// remainingSeconds for a pre-existing lock, cooldownUntil when the rejected
// attempt was the one that triggered it.
func LockedResponse(e *domain.AccountLockedError) map[string]any {
	if !e.Until.IsZero() {
		return map[string]any{
			"message":       "account locked",
			"cooldownUntil": e.Until.UTC().Format(time.RFC3339),
		}
	}
	return map[string]any{
		"message":          "account locked",
		"remainingSeconds": e.RemainingSeconds,
	}
}
