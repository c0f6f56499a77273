package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	repo "github.com/nusacargo/backoffice-auth/internal/auth/repository/postgres"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
)

var userWithRecordColumns = []string{
	"id", "email", "username", "first_name", "last_name", "password_hash",
	"role_id", "name", "created_at", "updated_at",
	"failed_attempt_count", "last_failed_attempt_at", "locked_until",
	"locked_by_admin", "pending_otp_code", "otp_expires_at",
	"password_last_changed_at", "password_must_be_reset", "exempt", "version",
}

func userRow() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userWithRecordColumns).
		AddRow("user-123", "bob@uvw.xy", "bob.vance", "Bob", "Xyz", "hash",
			1, "user", now, now,
			2, &now, nil,
			false, nil, nil,
			&now, false, false, 7)
}

// TestFindByIdentifier covers lookup by email or username.
func TestFindByIdentifier(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs("bob@uvw.xy").
			WillReturnRows(userRow())

		user, record, err := r.FindByIdentifier(ctx, "bob@uvw.xy")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, "user", user.RoleName)
		require.NotNil(t, record)
		assert.Equal(t, "user-123", record.UserID)
		assert.Equal(t, 2, record.FailedAttemptCount)
		assert.Equal(t, 7, record.Version)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs("ghost@uvw.xy").
			WillReturnError(pgx.ErrNoRows)

		user, record, err := r.FindByIdentifier(ctx, "ghost@uvw.xy")
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.Nil(t, record)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs("bob@uvw.xy").
			WillReturnError(fmt.Errorf("db error"))

		_, _, err := r.FindByIdentifier(ctx, "bob@uvw.xy")
		assert.Error(t, err)
	})
}

func TestFindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs("user-123").
			WillReturnRows(userRow())

		user, _, err := r.FindByID(ctx, "user-123")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "bob@uvw.xy", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		user, _, err := r.FindByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

// TestCreateUser covers the two-insert transaction.
func TestCreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID: "user-123", Email: "bob@uvw.xy", Username: "bob.vance",
		FirstName: "Bob", LastName: "Xyz", PasswordHash: "hash",
		RoleID: 1, CreatedAt: now, UpdatedAt: now,
	}
	record := &domain.UserSecurityRecord{UserID: user.ID, PasswordLastChangedAt: &now}

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Username, user.FirstName, user.LastName,
				user.PasswordHash, user.RoleID, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO user_security_records").
			WithArgs(record.UserID, record.FailedAttemptCount, record.LastFailedAttemptAt,
				record.LockedUntil, record.LockedByAdmin, record.PendingOtpCode,
				record.OtpExpiresAt, record.PasswordLastChangedAt,
				record.PasswordMustBeReset, record.Exempt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		assert.NoError(t, r.Create(ctx, user, record))
	})

	t.Run("user insert fails and rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Username, user.FirstName, user.LastName,
				user.PasswordHash, user.RoleID, user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("duplicate key"))
		mock.ExpectRollback()

		assert.Error(t, r.Create(ctx, user, record))
	})
}

// TestSaveSecurityRecord covers the conditional versioned update.
func TestSaveSecurityRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	record := &domain.UserSecurityRecord{UserID: "user-123", FailedAttemptCount: 1, Version: 7}

	args := func(rec *domain.UserSecurityRecord) []any {
		return []any{
			rec.UserID, rec.FailedAttemptCount, rec.LastFailedAttemptAt, rec.LockedUntil,
			rec.LockedByAdmin, rec.PendingOtpCode, rec.OtpExpiresAt,
			rec.PasswordLastChangedAt, rec.PasswordMustBeReset, rec.Exempt, rec.Version,
		}
	}

	t.Run("success bumps the in-memory version", func(t *testing.T) {
		mock.ExpectExec("UPDATE user_security_records").
			WithArgs(args(record)...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, r.SaveSecurityRecord(ctx, record))
		assert.Equal(t, 8, record.Version)
	})

	t.Run("lost race reports a version conflict", func(t *testing.T) {
		mock.ExpectExec("UPDATE user_security_records").
			WithArgs(args(record)...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := r.SaveSecurityRecord(ctx, record)
		assert.ErrorIs(t, err, autherror.ErrVersionConflict)
		assert.Equal(t, 8, record.Version)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE user_security_records").
			WithArgs(args(record)...).
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.SaveSecurityRecord(ctx, record))
	})
}

func TestUpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", "new-hash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.UpdatePassword(ctx, "user-123", "new-hash"))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", "new-hash").
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.UpdatePassword(ctx, "user-123", "new-hash"))
	})
}

func TestListLocked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT u.id, u.email, u.username").
			WithArgs(now).
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username"}).
				AddRow("user-1", "a@uvw.xy", "a").
				AddRow("user-2", "b@uvw.xy", "b"))

		users, err := r.ListLocked(ctx, now)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "user-1", users[0].ID)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT u.id, u.email, u.username").
			WithArgs(now).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.ListLocked(ctx, now)
		assert.Error(t, err)
	})
}

func TestAppendLoginAttempt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	userID := "user-123"
	attempt := &domain.LoginAttempt{
		ID: "attempt-1", UserID: &userID, Identifier: "bob@uvw.xy",
		IPAddress: "10.0.0.12", Device: "Chrome 120 on Windows 10",
		Location: "internal network", Outcome: "success", AttemptTime: time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO login_attempts").
			WithArgs(attempt.ID, attempt.UserID, attempt.Identifier, attempt.IPAddress,
				attempt.Device, attempt.Location, attempt.Outcome, attempt.AttemptTime).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Append(ctx, attempt))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO login_attempts").
			WithArgs(attempt.ID, attempt.UserID, attempt.Identifier, attempt.IPAddress,
				attempt.Device, attempt.Location, attempt.Outcome, attempt.AttemptTime).
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.Append(ctx, attempt))
	})
}
