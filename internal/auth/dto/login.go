package dto

import (
	"time"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
)

type LoginInput struct {
	Identifier  string `json:"identifier"`
	Password    string `json:"password"`
	Fingerprint string `json:"-"`
	IPAddress   string `json:"-"`
	UserAgent   string `json:"-"`
}

func (in LoginInput) Metadata() domain.RequestMetadata {
	return domain.RequestMetadata{
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
		Fingerprint: in.Fingerprint,
	}
}

// LoginResult is the outcome of one protocol step. PendingToken is set while
// the login waits on a second factor or a forced password reset;
// SessionToken only once the attempt is fully authenticated.
type LoginResult struct {
	State        domain.LoginState `json:"state"`
	Message      string            `json:"message"`
	RetryAfter   time.Duration     `json:"retry_after,omitempty"`
	PendingToken string            `json:"pending_token,omitempty"`
	SessionToken string            `json:"session_token,omitempty"`
}
