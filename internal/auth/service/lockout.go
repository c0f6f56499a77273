package service

import (
	"time"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

// LockoutTracker owns the attempt-counter transitions on a security record.
// It mutates the record in memory only; persisting the change (and resolving
// concurrent writers via the record version) is the caller's job.
type LockoutTracker struct{}

func NewLockoutTracker() LockoutTracker {
	return LockoutTracker{}
}

type GateResult struct {
	Allowed     bool
	AdminLocked bool
	RetryAfter  time.Duration
	// Healed is set when the gate performed stale-lock healing; the record
	// changed and must be saved.
	Healed bool
}

// CheckGate decides whether an attempt may proceed at all.
func (LockoutTracker) CheckGate(record *domain.UserSecurityRecord, now time.Time) GateResult {
	if record.LockedByAdmin && (record.LockedUntil == nil || record.LockedUntil.After(now)) {
		// No automatic retry window for a human-imposed lock.
		return GateResult{AdminLocked: true}
	}

	if record.LockedUntil != nil && record.LockedUntil.After(now) {
		return GateResult{RetryAfter: record.LockedUntil.Sub(now)}
	}

	if !record.LockedByAdmin &&
		record.FailedAttemptCount >= constant.MaxFailedAttempts &&
		record.LastFailedAttemptAt != nil &&
		now.Sub(*record.LastFailedAttemptAt) >= constant.LockoutWindow {
		record.FailedAttemptCount = 0
		record.LastFailedAttemptAt = nil
		record.LockedUntil = nil

		return GateResult{Allowed: true, Healed: true}
	}

	return GateResult{Allowed: true}
}

// RecordFailure counts one failed factor (password or passcode, same budget)
// and returns the attempts remaining before lockout, 0 once locked.
func (LockoutTracker) RecordFailure(record *domain.UserSecurityRecord, now time.Time) int {
	record.FailedAttemptCount++
	record.LastFailedAttemptAt = &now

	if record.FailedAttemptCount >= constant.MaxFailedAttempts {
		until := now.Add(constant.LockoutWindow)
		record.LockedUntil = &until

		return 0
	}

	return constant.MaxFailedAttempts - record.FailedAttemptCount
}

// RecordSuccess resets the counter after a fully completed login. An
// administrator lock survives: a successful password proof does not override
// a human decision.
func (LockoutTracker) RecordSuccess(record *domain.UserSecurityRecord) {
	record.FailedAttemptCount = 0
	record.LastFailedAttemptAt = nil
	if !record.LockedByAdmin {
		record.LockedUntil = nil
	}
}
