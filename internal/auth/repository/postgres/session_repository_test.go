package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	repo "github.com/nusacargo/backoffice-auth/internal/auth/repository/postgres"
)

func TestCreateSession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	ctx := context.Background()

	now := time.Now()
	session := &domain.Session{
		ID:        "session-1",
		UserID:    "user-123",
		IPAddress: "10.0.0.12",
		UserAgent: "Mozilla/5.0",
		Device:    "Chrome 120 on Windows 10",
		Location:  "internal network",
		CreatedAt: now,
		ExpiresAt: now.Add(15 * time.Minute),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO sessions").
			WithArgs(session.ID, session.UserID, session.DeviceFingerprint, session.IPAddress,
				session.UserAgent, session.Device, session.Location, session.CreatedAt,
				session.ExpiresAt, session.Revoked).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, session))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO sessions").
			WithArgs(session.ID, session.UserID, session.DeviceFingerprint, session.IPAddress,
				session.UserAgent, session.Device, session.Location, session.CreatedAt,
				session.ExpiresAt, session.Revoked).
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.Create(ctx, session))
	})
}

func TestRevokeAllForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE sessions").
			WithArgs("user-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 3))

		assert.NoError(t, r.RevokeAllForUser(ctx, "user-123"))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE sessions").
			WithArgs("user-123").
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.RevokeAllForUser(ctx, "user-123"))
	})
}
