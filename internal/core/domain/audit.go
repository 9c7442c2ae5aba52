package domain

import "time"

// LoginAttempt is an audit record of a single authentication attempt,
// successful or not. Written asynchronously; never consulted by the engine.
type LoginAttempt struct {
	Username  string    `json:"username"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
