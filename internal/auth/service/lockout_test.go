package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	"github.com/nusacargo/backoffice-auth/internal/auth/service"
)

func TestLockoutTracker_ThreeFailuresLock(t *testing.T) {
	tracker := service.NewLockoutTracker()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	record := &domain.UserSecurityRecord{UserID: "user-1"}

	assert.Equal(t, 2, tracker.RecordFailure(record, now))
	assert.Equal(t, 1, tracker.RecordFailure(record, now))
	assert.Equal(t, 0, tracker.RecordFailure(record, now))

	assert.Equal(t, 3, record.FailedAttemptCount)
	assert.NotNil(t, record.LockedUntil)
	assert.Equal(t, now.Add(24*time.Hour), *record.LockedUntil)

	gate := tracker.CheckGate(record, now.Add(time.Minute))
	assert.False(t, gate.Allowed)
	assert.False(t, gate.AdminLocked)
	assert.Equal(t, 24*time.Hour-time.Minute, gate.RetryAfter)

	// Still locked one second before the window closes.
	gate = tracker.CheckGate(record, now.Add(24*time.Hour-time.Second))
	assert.False(t, gate.Allowed)
}

func TestLockoutTracker_StaleLockHealing(t *testing.T) {
	tracker := service.NewLockoutTracker()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	record := &domain.UserSecurityRecord{UserID: "user-1"}

	tracker.RecordFailure(record, now)
	tracker.RecordFailure(record, now)
	tracker.RecordFailure(record, now)

	gate := tracker.CheckGate(record, now.Add(24*time.Hour))
	assert.True(t, gate.Allowed)
	assert.True(t, gate.Healed)
	// Healing is an observable reset of the record.
	assert.Equal(t, 0, record.FailedAttemptCount)
	assert.Nil(t, record.LastFailedAttemptAt)
	assert.Nil(t, record.LockedUntil)

	// A failure after healing restarts the strike count at 1.
	remaining := tracker.RecordFailure(record, now.Add(25*time.Hour))
	assert.Equal(t, 2, remaining)
	assert.Equal(t, 1, record.FailedAttemptCount)
}

func TestLockoutTracker_AdminLock(t *testing.T) {
	tracker := service.NewLockoutTracker()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("no expiry means never self-expiring", func(t *testing.T) {
		record := &domain.UserSecurityRecord{UserID: "user-1", LockedByAdmin: true}

		gate := tracker.CheckGate(record, now)
		assert.False(t, gate.Allowed)
		assert.True(t, gate.AdminLocked)
		assert.Zero(t, gate.RetryAfter)

		gate = tracker.CheckGate(record, now.Add(1000*time.Hour))
		assert.False(t, gate.Allowed)
	})

	t.Run("healing never clears an admin lock", func(t *testing.T) {
		failedAt := now.Add(-48 * time.Hour)
		record := &domain.UserSecurityRecord{
			UserID:              "user-1",
			LockedByAdmin:       true,
			FailedAttemptCount:  3,
			LastFailedAttemptAt: &failedAt,
		}

		gate := tracker.CheckGate(record, now)
		assert.False(t, gate.Allowed)
		assert.True(t, gate.AdminLocked)
		assert.False(t, gate.Healed)
		assert.Equal(t, 3, record.FailedAttemptCount)
	})

	t.Run("success never clears an admin lock", func(t *testing.T) {
		until := now.Add(time.Hour)
		record := &domain.UserSecurityRecord{
			UserID:             "user-1",
			LockedByAdmin:      true,
			LockedUntil:        &until,
			FailedAttemptCount: 2,
		}

		tracker.RecordSuccess(record)
		assert.Equal(t, 0, record.FailedAttemptCount)
		assert.True(t, record.LockedByAdmin)
		assert.NotNil(t, record.LockedUntil)
	})
}

func TestLockoutTracker_RecordSuccessResets(t *testing.T) {
	tracker := service.NewLockoutTracker()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	record := &domain.UserSecurityRecord{UserID: "user-1"}

	tracker.RecordFailure(record, now)
	tracker.RecordFailure(record, now)
	tracker.RecordFailure(record, now)
	tracker.RecordSuccess(record)

	assert.Equal(t, 0, record.FailedAttemptCount)
	assert.Nil(t, record.LastFailedAttemptAt)
	assert.Nil(t, record.LockedUntil)

	gate := tracker.CheckGate(record, now)
	assert.True(t, gate.Allowed)
}
