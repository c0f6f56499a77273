package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
)

// CredentialVerifier answers exactly one question: does the submitted secret
// match the stored hash for this account. It never mutates lockout state;
// what a mismatch implies about rate limiting is the orchestrator's concern.
type CredentialVerifier struct {
	users domain.UserStore
}

func NewCredentialVerifier(users domain.UserStore) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

// Lookup finds the account by username-or-email. A missing account returns
// (nil, nil, nil); the caller decides how to audit it.
func (v *CredentialVerifier) Lookup(ctx context.Context, identifier string) (*domain.User, *domain.UserSecurityRecord, error) {
	user, record, err := v.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", autherror.ErrStorageFailure, err)
	}

	return user, record, nil
}

// Match compares the candidate secret against the stored hash. Separate from
// Lookup so the caller can consult the lockout gate before paying for the
// comparison.
func (v *CredentialVerifier) Match(user *domain.User, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) == nil
}
