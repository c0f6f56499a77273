package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nusacargo/backoffice-auth/internal/auth/device"
	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	"github.com/nusacargo/backoffice-auth/internal/auth/dto"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

const (
	msgAdminLocked     = "account locked by an administrator; contact support to unlock"
	msgAutoLocked      = "account locked; try again later"
	msgLockedNow       = "account locked for 24 hours after too many failed attempts"
	msgPasscodeSent    = "a passcode was sent to your email address"
	msgPasswordExpired = "password expired; it must be changed before signing in"
	msgPasscodeExpired = "passcode expired; sign in again to receive a new one"
	msgAuthenticated   = "login successful"
)

// AuthService drives the end-to-end login protocol over the factored
// components: gate check, credential verification, passcode challenge,
// forced password reset and session establishment.
type AuthService struct {
	users    domain.UserStore
	audit    domain.AuditStore
	verifier *CredentialVerifier
	lockout  LockoutTracker
	policy   PasswordPolicyEngine
	otp      *OtpChallengeManager
	sessions *SessionEstablisher
	tokens   TokenGenerator
	clock    domain.Clock
	logger   *zap.Logger
}

func NewAuthService(
	users domain.UserStore,
	audit domain.AuditStore,
	verifier *CredentialVerifier,
	otp *OtpChallengeManager,
	sessions *SessionEstablisher,
	tokens TokenGenerator,
	clock domain.Clock,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		audit:    audit,
		verifier: verifier,
		lockout:  NewLockoutTracker(),
		policy:   NewPasswordPolicyEngine(),
		otp:      otp,
		sessions: sessions,
		tokens:   tokens,
		clock:    clock,
		logger:   logger,
	}
}

// Register creates an account together with its security record. The
// password must satisfy the same complexity rules as a password change.
func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || input.Password == "" {
		return nil, autherror.ErrInvalidInput
	}

	if reasons := s.policy.ValidateComplexity(input.Password, input.FirstName, input.LastName, email); len(reasons) > 0 {
		return nil, &autherror.PolicyViolationError{Reasons: reasons}
	}

	existing, _, err := s.users.FindByIdentifier(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hash),
		RoleID:       constant.DefaultUserRoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	record := &domain.UserSecurityRecord{
		UserID:                user.ID,
		PasswordLastChangedAt: &now,
	}

	if err := s.users.Create(ctx, user, record); err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}

	return user, nil
}

// Login runs the first factor. On success the attempt is parked behind a
// pending-login token: either awaiting the dispatched passcode or awaiting a
// forced password reset. The failure counter is charged here for password
// mismatches only; success is not recorded until the second factor passes.
func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, autherror.ErrInvalidInput
	}

	user, record, err := s.verifier.Lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if user == nil {
		// Unknown identifier: audit with no user association, no
		// per-account counter to charge.
		s.auditAttempt(ctx, nil, identifier, input.Metadata(), constant.OutcomePasswordFail, now)

		return &dto.LoginResult{
			State:   domain.StateRejected,
			Message: autherror.ErrInvalidCredential.Error(),
		}, nil
	}

	// Gate before the hash comparison: a locked account never pays for a
	// bcrypt verification.
	gate := s.lockout.CheckGate(record, now)
	if gate.Healed {
		if err := s.saveRecord(ctx, record); err != nil {
			return nil, err
		}
	}
	if !gate.Allowed {
		return lockedResult(gate), nil
	}

	if !s.verifier.Match(user, input.Password) {
		remaining := s.lockout.RecordFailure(record, now)
		if err := s.saveRecord(ctx, record); err != nil {
			return nil, err
		}
		s.auditAttempt(ctx, &user.ID, identifier, input.Metadata(), constant.OutcomePasswordFail, now)

		return rejectionResult(remaining), nil
	}

	if s.policy.IsExpired(record, now) {
		pending, err := s.tokens.GeneratePending(user.ID, StageReset, now)
		if err != nil {
			return nil, fmt.Errorf("generate pending token: %w", err)
		}

		return &dto.LoginResult{
			State:        domain.StatePasswordExpired,
			Message:      msgPasswordExpired,
			PendingToken: pending,
		}, nil
	}

	// Success is deliberately not recorded yet: the attempt completes only
	// once the passcode validates.
	if err := s.otp.IssueChallenge(ctx, user, record); err != nil {
		return nil, err
	}

	pending, err := s.tokens.GeneratePending(user.ID, StageOtp, now)
	if err != nil {
		return nil, fmt.Errorf("generate pending token: %w", err)
	}

	return &dto.LoginResult{
		State:        domain.StateAwaitingOtp,
		Message:      msgPasscodeSent,
		PendingToken: pending,
	}, nil
}

// SubmitOtp runs the second factor and, on success, establishes the session.
func (s *AuthService) SubmitOtp(ctx context.Context, input dto.SubmitOtpInput) (*dto.LoginResult, error) {
	if input.PendingToken == "" || input.Code == "" {
		return nil, autherror.ErrInvalidInput
	}

	claims, err := s.tokens.VerifyPending(input.PendingToken, StageOtp)
	if err != nil {
		return nil, autherror.ErrPendingLoginClosed
	}

	user, record, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}
	if user == nil {
		return nil, autherror.ErrPendingLoginClosed
	}

	now := s.clock.Now()

	gate := s.lockout.CheckGate(record, now)
	if gate.Healed {
		if err := s.saveRecord(ctx, record); err != nil {
			return nil, err
		}
	}
	if !gate.Allowed {
		return lockedResult(gate), nil
	}

	if verr := s.otp.ValidateChallenge(record, input.Code, now); verr != nil {
		// Passcode guesses consume the same budget as password guesses.
		remaining := s.lockout.RecordFailure(record, now)
		if err := s.saveRecord(ctx, record); err != nil {
			return nil, err
		}
		s.auditAttempt(ctx, &user.ID, user.Email, input.Metadata(), constant.OutcomeOtpFail, now)

		if remaining == 0 {
			return &dto.LoginResult{
				State:      domain.StateLocked,
				Message:    msgLockedNow,
				RetryAfter: constant.LockoutWindow,
			}, nil
		}
		if errors.Is(verr, autherror.ErrChallengeExpired) {
			return &dto.LoginResult{State: domain.StateRejected, Message: msgPasscodeExpired}, nil
		}

		return rejectionResult(remaining), nil
	}

	s.lockout.RecordSuccess(record)
	if err := s.saveRecord(ctx, record); err != nil {
		return nil, err
	}

	token, err := s.sessions.Establish(ctx, user, input.Metadata())
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		State:        domain.StateAuthenticated,
		Message:      msgAuthenticated,
		SessionToken: token,
	}, nil
}

// ChangeExpiredPassword completes the forced-reset sub-flow. It never grants
// a session; the user re-enters the login from the start afterwards.
func (s *AuthService) ChangeExpiredPassword(ctx context.Context, input dto.ChangeExpiredPasswordInput) (*dto.ChangePasswordOutput, error) {
	if input.PendingToken == "" || input.NewPassword == "" {
		return nil, autherror.ErrInvalidInput
	}

	claims, err := s.tokens.VerifyPending(input.PendingToken, StageReset)
	if err != nil {
		return nil, autherror.ErrPendingLoginClosed
	}

	user, record, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}
	if user == nil {
		return nil, autherror.ErrPendingLoginClosed
	}

	reasons := s.policy.ValidateComplexity(input.NewPassword, user.FirstName, user.LastName, user.Email)
	if len(reasons) > 0 {
		return &dto.ChangePasswordOutput{OK: false, Errors: reasons}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}

	now := s.clock.Now()
	record.PasswordLastChangedAt = &now
	record.PasswordMustBeReset = false
	if err := s.saveRecord(ctx, record); err != nil {
		return nil, err
	}

	return &dto.ChangePasswordOutput{OK: true}, nil
}

// LockUser imposes an administrator lock. until is optional; nil means the
// lock never self-expires.
func (s *AuthService) LockUser(ctx context.Context, userID string, until *time.Time) error {
	user, record, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	record.LockedByAdmin = true
	record.LockedUntil = until

	return s.saveRecord(ctx, record)
}

// UnlockUser is the only operation that clears an administrator lock. It
// also resets the failure counter so the account starts clean.
func (s *AuthService) UnlockUser(ctx context.Context, userID string) error {
	user, record, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	record.LockedByAdmin = false
	record.LockedUntil = nil
	record.FailedAttemptCount = 0
	record.LastFailedAttemptAt = nil

	return s.saveRecord(ctx, record)
}

func (s *AuthService) ListLockedUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.ListLocked(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}

	return users, nil
}

// saveRecord persists security-record mutations. A lost optimistic-update
// race surfaces as a retryable storage failure; the counter must never be
// silently under-counted.
func (s *AuthService) saveRecord(ctx context.Context, record *domain.UserSecurityRecord) error {
	if err := s.users.SaveSecurityRecord(ctx, record); err != nil {
		if errors.Is(err, autherror.ErrVersionConflict) {
			return fmt.Errorf("%w: concurrent update on user %s", autherror.ErrStorageFailure, record.UserID)
		}

		return fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}

	return nil
}

// auditAttempt writes a failure-path audit row. Failures to audit are logged
// and swallowed: the attempt outcome itself has already been decided.
func (s *AuthService) auditAttempt(ctx context.Context, userID *string, identifier string, meta domain.RequestMetadata, outcome string, now time.Time) {
	ipAddress := meta.IPAddress
	if ipAddress == "" {
		ipAddress = constant.UnknownSentinel
	}

	err := s.audit.Append(ctx, &domain.LoginAttempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		Identifier:  identifier,
		IPAddress:   ipAddress,
		Device:      device.Describe(meta.UserAgent),
		Location:    device.CoarseLocation(meta.IPAddress),
		Outcome:     outcome,
		AttemptTime: now,
	})
	if err != nil {
		s.logger.Warn("failed to append login audit entry",
			zap.String("outcome", outcome),
			zap.Error(err))
	}
}

func lockedResult(gate GateResult) *dto.LoginResult {
	if gate.AdminLocked {
		return &dto.LoginResult{State: domain.StateLocked, Message: msgAdminLocked}
	}

	return &dto.LoginResult{
		State:      domain.StateLocked,
		Message:    msgAutoLocked,
		RetryAfter: gate.RetryAfter,
	}
}

func rejectionResult(remaining int) *dto.LoginResult {
	if remaining == 0 {
		return &dto.LoginResult{
			State:      domain.StateLocked,
			Message:    msgLockedNow,
			RetryAfter: constant.LockoutWindow,
		}
	}

	return &dto.LoginResult{
		State:   domain.StateRejected,
		Message: fmt.Sprintf("%s; %d attempt(s) remaining", autherror.ErrInvalidCredential.Error(), remaining),
	}
}
