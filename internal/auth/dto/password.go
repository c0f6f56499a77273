package dto

type ChangeExpiredPasswordInput struct {
	PendingToken string `json:"pending_token"`
	NewPassword  string `json:"new_password"`
}

type ChangePasswordOutput struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}
