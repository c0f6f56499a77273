package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nusacargo/backoffice-auth/internal/auth/device"
	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

// SessionEstablisher turns a fully authenticated attempt into a session:
// revokes all prior sessions (fixation defense), persists the new one with
// resolved device and location metadata, writes the success audit row and
// fires a best-effort "new login" alert.
type SessionEstablisher struct {
	sessions domain.SessionStore
	audit    domain.AuditStore
	sender   domain.NotificationSender
	tokens   TokenGenerator
	clock    domain.Clock
	logger   *zap.Logger
}

func NewSessionEstablisher(
	sessions domain.SessionStore,
	audit domain.AuditStore,
	sender domain.NotificationSender,
	tokens TokenGenerator,
	clock domain.Clock,
	logger *zap.Logger,
) *SessionEstablisher {
	return &SessionEstablisher{
		sessions: sessions,
		audit:    audit,
		sender:   sender,
		tokens:   tokens,
		clock:    clock,
		logger:   logger,
	}
}

func (e *SessionEstablisher) Establish(ctx context.Context, user *domain.User, meta domain.RequestMetadata) (string, error) {
	now := e.clock.Now()

	if err := e.sessions.RevokeAllForUser(ctx, user.ID); err != nil {
		return "", fmt.Errorf("%w: revoke prior sessions: %v", autherror.ErrStorageFailure, err)
	}

	token, expiresAt, err := e.tokens.GenerateSession(user.ID, user.Email, user.RoleName, now)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	deviceDesc := device.Describe(meta.UserAgent)
	location := device.CoarseLocation(meta.IPAddress)
	ipAddress := meta.IPAddress
	if ipAddress == "" {
		ipAddress = constant.UnknownSentinel
	}

	session := &domain.Session{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		DeviceFingerprint: meta.Fingerprint,
		IPAddress:         ipAddress,
		UserAgent:         meta.UserAgent,
		Device:            deviceDesc,
		Location:          location,
		CreatedAt:         now,
		ExpiresAt:         expiresAt,
	}
	if err := e.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("%w: store session: %v", autherror.ErrStorageFailure, err)
	}

	if err := e.audit.Append(ctx, &domain.LoginAttempt{
		ID:          uuid.NewString(),
		UserID:      &user.ID,
		Identifier:  user.Email,
		IPAddress:   ipAddress,
		Device:      deviceDesc,
		Location:    location,
		Outcome:     constant.OutcomeSuccess,
		AttemptTime: now,
	}); err != nil {
		return "", fmt.Errorf("%w: append audit entry: %v", autherror.ErrStorageFailure, err)
	}

	// A user must never be locked out of their own account because an
	// outbound message failed, so alert failures are logged and swallowed.
	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	body := fmt.Sprintf("A new login to your account was made from %s (%s, %s).",
		ipAddress, deviceDesc, location)
	if err := e.sender.Send(sendCtx, user.Email, "New login to your account", body); err != nil {
		e.logger.Warn("failed to send new-login alert",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	return token, nil
}
