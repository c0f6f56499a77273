package dto

import "github.com/nusacargo/backoffice-auth/internal/auth/domain"

type SubmitOtpInput struct {
	PendingToken string `json:"pending_token"`
	Code         string `json:"code"`
	Fingerprint  string `json:"-"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

func (in SubmitOtpInput) Metadata() domain.RequestMetadata {
	return domain.RequestMetadata{
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
		Fingerprint: in.Fingerprint,
	}
}
