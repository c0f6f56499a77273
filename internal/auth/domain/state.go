package domain

// LoginState is the position of a login attempt in the two-factor protocol.
// Locked and Rejected are terminal for the attempt, not for the account.
type LoginState string

const (
	// StateAwaitingOtp: password accepted, a passcode has been dispatched
	// and the attempt waits for it.
	StateAwaitingOtp LoginState = "awaiting_otp"
	// StatePasswordExpired: password accepted but must be replaced before
	// any session is issued. The forced-reset sub-flow ends by re-entering
	// the login from the start.
	StatePasswordExpired LoginState = "password_expired"
	StateAuthenticated   LoginState = "authenticated"
	StateLocked          LoginState = "locked"
	StateRejected        LoginState = "rejected"
)
