package domain

//go:generate mockgen -source=interface.go -destination=../../mocks/mock_domain.go -package=mocks

import (
	"context"
	"time"
)

type UserStore interface {
	// FindByIdentifier resolves a single account by username-or-email
	// equality. A miss returns (nil, nil, nil).
	FindByIdentifier(ctx context.Context, identifier string) (*User, *UserSecurityRecord, error)
	FindByID(ctx context.Context, id string) (*User, *UserSecurityRecord, error)
	Create(ctx context.Context, user *User, record *UserSecurityRecord) error
	// SaveSecurityRecord performs an atomic conditional update keyed on
	// record.Version and returns ErrVersionConflict on a lost race. The
	// in-memory Version is bumped on success.
	SaveSecurityRecord(ctx context.Context, record *UserSecurityRecord) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	ListLocked(ctx context.Context, now time.Time) ([]*User, error)
}

// AuditStore appends to the login attempt trail. Rows are never mutated or
// deleted by this service.
type AuditStore interface {
	Append(ctx context.Context, attempt *LoginAttempt) error
}

type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// NotificationSender dispatches outbound messages (passcodes, security
// alerts). Implementations must honor the context deadline.
type NotificationSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Clock is injected so lockout windows and passcode expiry are testable.
type Clock interface {
	Now() time.Time
}

// SecureRandom produces cryptographically strong numeric codes.
type SecureRandom interface {
	Digits(n int) (string, error)
}

// PermissionOracle answers role-permission lookups. Consumed by the admin
// surface; evaluation itself lives elsewhere.
type PermissionOracle interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}
