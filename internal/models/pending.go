package models

import "time"

type PendingKind string

const (
	PendingSignup PendingKind = "signup"
	PendingReset  PendingKind = "reset"
)

// PendingRecord is an in-flight signup or password reset, addressed by an
// opaque token that the client carries between requests.
type PendingRecord struct {
	Token          string      `json:"token"`
	Kind           PendingKind `json:"kind"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"password_hash,omitempty"`
	OTPCode        string      `json:"otp_code"`
	ExpiresAt      time.Time   `json:"expires_at"`
	Verified       bool        `json:"verified"`
	FailedAttempts int         `json:"failed_attempts"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Expired reports whether the record's current code is no longer valid.
func (p *PendingRecord) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
