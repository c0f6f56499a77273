package dto

import "time"

type UserOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type LockUserInput struct {
	// Until is optional; a missing value means the lock never self-expires.
	Until *time.Time `json:"until"`
}

type LockedUserOutput struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
