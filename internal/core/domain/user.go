package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleSupplier = "supplier"
)

// MaxLoginAttempts is the number of consecutive failures that triggers a
// cooldown. The engine compares the pre-increment counter against
// MaxLoginAttempts-1, so the lock lands exactly on the third failure.
const MaxLoginAttempts = 3

// CooldownDuration is how long an account stays locked after too many
// consecutive failed logins.
const CooldownDuration = 5 * time.Minute

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUnauthorized = errors.New("unauthorized")
var ErrForbidden = errors.New("access forbidden")

// AccountLockedError signals that an account is inside its cooldown window.
// RemainingSeconds is set when the lock pre-dates the attempt; Until is set
// when this attempt triggered the lock.
type AccountLockedError struct {
	RemainingSeconds int64
	Until            time.Time
}

func (e *AccountLockedError) Error() string {
	if !e.Until.IsZero() {
		return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("account locked, retry in %ds", e.RemainingSeconds)
}

// User models an account in the system. PasswordHash is never serialized.
type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	LoginAttempts int        `json:"-"`
	CooldownUntil *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasRole reports whether the user's role matches, ignoring case. Roles are
// stored lower-case, but records written by earlier versions may be mixed-case.
func (u *User) HasRole(role string) bool {
	return strings.EqualFold(u.Role, role)
}

// Sanitized returns a copy safe for transmission: the password hash and the
// failure-tracking fields are zeroed.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	clone.LoginAttempts = 0
	clone.CooldownUntil = nil
	return &clone
}

// ListableRoles is the fixed allow-list for the admin account listing.
// Admin accounts are deliberately not exposed through that operation.
var ListableRoles = []string{RoleStaff, RoleSupplier}

// RoleListable reports whether a role may appear in the account listing.
func RoleListable(role string) bool {
	for _, r := range ListableRoles {
		if strings.EqualFold(role, r) {
			return true
		}
	}
	return false
}
