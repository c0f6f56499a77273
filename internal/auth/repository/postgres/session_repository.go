package postgres

import (
	"context"
	"fmt"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
)

// SessionRepository is the pgx-backed domain.SessionStore.
type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, device_fingerprint, ip_address, user_agent, device, location, created_at, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, session.ID, session.UserID, session.DeviceFingerprint, session.IPAddress,
		session.UserAgent, session.Device, session.Location, session.CreatedAt,
		session.ExpiresAt, session.Revoked)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE sessions SET revoked = TRUE WHERE user_id = $1 AND NOT revoked
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}
