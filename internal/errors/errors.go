package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput covers a missing or malformed identifier, secret or
	// code. Rejected before any stored state is touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredential is deliberately generic: it never reveals which
	// factor failed beyond "invalid credentials or code".
	ErrInvalidCredential = errors.New("invalid credentials or code")

	// ErrChallengeExpired is distinct from a mismatch so the UI can offer
	// re-issuance instead of another guess.
	ErrChallengeExpired = errors.New("passcode expired")

	// ErrDeliveryFailure means the passcode could not be dispatched; the
	// login must not advance to the passcode step.
	ErrDeliveryFailure = errors.New("could not deliver passcode")

	// ErrStorageFailure is retryable and never counts against the lockout
	// budget.
	ErrStorageFailure = errors.New("storage failure")

	// ErrVersionConflict reports a lost optimistic-update race on a
	// security record. Surfaced to callers as a retryable storage failure.
	ErrVersionConflict = errors.New("security record version conflict")

	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrPendingLoginClosed = errors.New("pending login expired or invalid")
)

// PolicyViolationError carries every complexity rule the candidate password
// broke; validation never short-circuits on the first failure.
type PolicyViolationError struct {
	Reasons []string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("password policy violation: %s", strings.Join(e.Reasons, "; "))
}

// AsPolicyViolation unwraps err into a PolicyViolationError if it is one.
func AsPolicyViolation(err error) (*PolicyViolationError, bool) {
	var pv *PolicyViolationError
	if errors.As(err, &pv) {
		return pv, true
	}

	return nil, false
}
