package domain

import "time"

type User struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	RoleID       int
	RoleName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSecurityRecord is the per-account security state mutated by every login
// attempt. The record outlives any single attempt; only its transient fields
// (pending passcode, auto lock) are ever cleared.
type UserSecurityRecord struct {
	UserID              string
	FailedAttemptCount  int
	LastFailedAttemptAt *time.Time
	LockedUntil         *time.Time
	// LockedByAdmin marks a human-imposed lock. It is cleared only by an
	// explicit administrative unlock, never by stale-lock healing or by a
	// successful login.
	LockedByAdmin         bool
	PendingOtpCode        *string
	OtpExpiresAt          *time.Time
	PasswordLastChangedAt *time.Time
	PasswordMustBeReset   bool
	// Exempt accounts (designated administrative accounts) skip password
	// expiration.
	Exempt bool
	// Version backs the optimistic conditional update in the store; the
	// read-check-write sequences on this record are critical sections.
	Version int
}

// Session is one authenticated identity. A fresh session is issued on every
// full login and all prior sessions for the user are revoked first.
type Session struct {
	ID                string
	UserID            string
	DeviceFingerprint string
	IPAddress         string
	UserAgent         string
	Device            string
	Location          string
	CreatedAt         time.Time
	ExpiresAt         time.Time
	Revoked           bool
}

// LoginAttempt is an append-only audit row. UserID is nil when the submitted
// identifier matched no account.
type LoginAttempt struct {
	ID          string
	UserID      *string
	Identifier  string
	IPAddress   string
	Device      string
	Location    string
	Outcome     string
	AttemptTime time.Time
}

// RequestMetadata carries the client-side context of an attempt into the
// audit trail and session rows.
type RequestMetadata struct {
	IPAddress   string
	UserAgent   string
	Fingerprint string
}
