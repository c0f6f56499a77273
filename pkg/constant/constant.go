package constant

import "time"

// Security policy constants. These are deliberately not configurable: the
// lockout threshold and windows are company policy, not deployment tuning.
const (
	// MaxFailedAttempts is the number of consecutive failed factors
	// (password or OTP) before an account is auto-locked.
	MaxFailedAttempts = 3

	// LockoutWindow is both the auto-lock duration and the stale-lock
	// healing window measured from the last failed attempt.
	LockoutWindow = 24 * time.Hour

	// OtpTTL is the validity window of an issued login passcode.
	OtpTTL = 10 * time.Minute

	// OtpDigits is the length of the numeric login passcode.
	OtpDigits = 6

	// PasswordMaxAge is the age after which a password must be replaced.
	PasswordMaxAge = 90 * 24 * time.Hour

	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8
)

const (
	DefaultUserRoleID = 1

	// PermissionLockUsers guards the administrator lock endpoints.
	PermissionLockUsers = "users.lock"
)

// Outcome classifiers for the login audit trail.
const (
	OutcomePasswordFail = "password_fail"
	OutcomeOtpFail      = "otp_fail"
	OutcomeSuccess      = "success"
)

// UnknownSentinel marks unresolved device or location metadata. Audit rows
// never leave these fields empty, so "unknown" cannot be confused with a
// trusted local origin.
const UnknownSentinel = "unknown"
