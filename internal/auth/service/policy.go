package service

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

// PasswordPolicyEngine validates password complexity and account-level
// expiration. It is stateless; both methods are pure over their inputs.
type PasswordPolicyEngine struct{}

func NewPasswordPolicyEngine() PasswordPolicyEngine {
	return PasswordPolicyEngine{}
}

// ValidateComplexity checks every rule independently and returns all
// violations; an empty slice means the candidate is acceptable.
//
// The personal-information rule forbids any letter or digit of the candidate
// that also occurs in the first name, last name, or email. Punctuation in the
// email (the '@' and dots) is not itself forbidden.
func (PasswordPolicyEngine) ValidateComplexity(candidate, firstName, lastName, email string) []string {
	var reasons []string

	if utf8.RuneCountInString(candidate) < constant.PasswordMinLength {
		reasons = append(reasons, "must be at least 8 characters long")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range candidate {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasLower {
		reasons = append(reasons, "must contain a lowercase letter")
	}
	if !hasUpper {
		reasons = append(reasons, "must contain an uppercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "must contain a digit")
	}
	if !hasSymbol {
		reasons = append(reasons, "must contain a non-alphanumeric character")
	}

	personal := alnumSet(firstName + lastName + email)
	for _, r := range candidate {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if _, found := personal[unicode.ToLower(r)]; found {
			reasons = append(reasons, "must not contain characters from your name or email")
			break
		}
	}

	return reasons
}

// IsExpired reports whether the account's password may no longer be used to
// open a session. Exempt accounts never expire. A never-set change date is
// treated as maximally stale.
func (PasswordPolicyEngine) IsExpired(record *domain.UserSecurityRecord, now time.Time) bool {
	if record.Exempt {
		return false
	}
	if record.PasswordMustBeReset {
		return true
	}
	if record.PasswordLastChangedAt == nil {
		return true
	}

	return now.Sub(*record.PasswordLastChangedAt) > constant.PasswordMaxAge
}

func alnumSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			set[unicode.ToLower(r)] = struct{}{}
		}
	}

	return set
}
