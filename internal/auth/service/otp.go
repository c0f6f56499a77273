package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

// notifyTimeout bounds every outbound notification dispatch. A timeout during
// passcode issuance is a delivery failure, not a hang.
const notifyTimeout = 5 * time.Second

// OtpChallengeManager issues and validates the short-lived numeric second
// factor. Only one challenge can be outstanding per account; issuing a new
// one overwrites the previous.
type OtpChallengeManager struct {
	users  domain.UserStore
	sender domain.NotificationSender
	random domain.SecureRandom
	clock  domain.Clock
}

func NewOtpChallengeManager(
	users domain.UserStore,
	sender domain.NotificationSender,
	random domain.SecureRandom,
	clock domain.Clock,
) *OtpChallengeManager {
	return &OtpChallengeManager{users: users, sender: sender, random: random, clock: clock}
}

// IssueChallenge persists a fresh passcode on the record and dispatches it to
// the user's contact address. If dispatch fails the challenge is rolled back
// and not considered issued: the caller must surface a delivery error rather
// than advance to the passcode step.
func (m *OtpChallengeManager) IssueChallenge(ctx context.Context, user *domain.User, record *domain.UserSecurityRecord) error {
	code, err := m.random.Digits(constant.OtpDigits)
	if err != nil {
		return fmt.Errorf("generate passcode: %w", err)
	}

	now := m.clock.Now()
	expiry := now.Add(constant.OtpTTL)
	record.PendingOtpCode = &code
	record.OtpExpiresAt = &expiry

	if err := m.users.SaveSecurityRecord(ctx, record); err != nil {
		return fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	body := fmt.Sprintf("Your login passcode is %s. It expires in %d minutes.",
		code, int(constant.OtpTTL.Minutes()))
	if err := m.sender.Send(sendCtx, user.Email, "Your login passcode", body); err != nil {
		record.PendingOtpCode = nil
		record.OtpExpiresAt = nil
		// Best effort: a stale pending code is harmless, it can never
		// validate without having been delivered.
		_ = m.users.SaveSecurityRecord(ctx, record)

		return fmt.Errorf("%w: %v", autherror.ErrDeliveryFailure, err)
	}

	return nil
}

// ValidateChallenge checks the submitted code against the outstanding
// challenge. The comparison is an exact string compare so leading zeros
// cannot be confused.
//
// On success the challenge is cleared (one-time use). On expiry observation
// the challenge is also cleared. On a plain mismatch it is kept, allowing a
// retry within the window; the caller still charges the attempt budget.
// The record is mutated in memory only; persisting is the caller's job.
func (m *OtpChallengeManager) ValidateChallenge(record *domain.UserSecurityRecord, submitted string, now time.Time) error {
	if record.PendingOtpCode == nil || record.OtpExpiresAt == nil {
		return autherror.ErrChallengeExpired
	}

	if !now.Before(*record.OtpExpiresAt) {
		record.PendingOtpCode = nil
		record.OtpExpiresAt = nil

		return autherror.ErrChallengeExpired
	}

	if *record.PendingOtpCode != submitted {
		return autherror.ErrInvalidCredential
	}

	record.PendingOtpCode = nil
	record.OtpExpiresAt = nil

	return nil
}
