package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nusacargo/backoffice-auth/internal/auth/domain"
	autherror "github.com/nusacargo/backoffice-auth/internal/errors"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userWithRecordColumns = `
	u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash,
	u.role_id, r.name, u.created_at, u.updated_at,
	s.failed_attempt_count, s.last_failed_attempt_at, s.locked_until,
	s.locked_by_admin, s.pending_otp_code, s.otp_expires_at,
	s.password_last_changed_at, s.password_must_be_reset, s.exempt, s.version`

func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, *domain.UserSecurityRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN roles r ON r.id = u.role_id
		JOIN user_security_records s ON s.user_id = u.id
		WHERE u.email = $1 OR u.username = $1
		LIMIT 1;
	`, userWithRecordColumns)

	return r.scanUserWithRecord(r.db.QueryRow(ctx, query, identifier))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.User, *domain.UserSecurityRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN roles r ON r.id = u.role_id
		JOIN user_security_records s ON s.user_id = u.id
		WHERE u.id = $1
		LIMIT 1;
	`, userWithRecordColumns)

	return r.scanUserWithRecord(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanUserWithRecord(row pgx.Row) (*domain.User, *domain.UserSecurityRecord, error) {
	var user domain.User
	var record domain.UserSecurityRecord

	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.RoleID, &user.RoleName, &user.CreatedAt, &user.UpdatedAt,
		&record.FailedAttemptCount, &record.LastFailedAttemptAt, &record.LockedUntil,
		&record.LockedByAdmin, &record.PendingOtpCode, &record.OtpExpiresAt,
		&record.PasswordLastChangedAt, &record.PasswordMustBeReset, &record.Exempt, &record.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}

		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	record.UserID = user.ID

	return &user, &record, nil
}

// Create inserts the account and its security record in one transaction; a
// user must never exist without security state.
func (r *PostgresRepository) Create(ctx context.Context, user *domain.User, record *domain.UserSecurityRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, username, first_name, last_name, password_hash, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Email, user.Username, user.FirstName, user.LastName,
		user.PasswordHash, user.RoleID, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_security_records (
			user_id, failed_attempt_count, last_failed_attempt_at, locked_until,
			locked_by_admin, pending_otp_code, otp_expires_at,
			password_last_changed_at, password_must_be_reset, exempt, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
	`, record.UserID, record.FailedAttemptCount, record.LastFailedAttemptAt, record.LockedUntil,
		record.LockedByAdmin, record.PendingOtpCode, record.OtpExpiresAt,
		record.PasswordLastChangedAt, record.PasswordMustBeReset, record.Exempt)
	if err != nil {
		return fmt.Errorf("failed to insert security record: %w", err)
	}

	return tx.Commit(ctx)
}

// SaveSecurityRecord is the atomic conditional update serializing concurrent
// attempts against one account. A row that moved under us affects zero rows
// and reports ErrVersionConflict.
func (r *PostgresRepository) SaveSecurityRecord(ctx context.Context, record *domain.UserSecurityRecord) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_security_records SET
			failed_attempt_count = $2,
			last_failed_attempt_at = $3,
			locked_until = $4,
			locked_by_admin = $5,
			pending_otp_code = $6,
			otp_expires_at = $7,
			password_last_changed_at = $8,
			password_must_be_reset = $9,
			exempt = $10,
			version = version + 1
		WHERE user_id = $1 AND version = $11
	`, record.UserID, record.FailedAttemptCount, record.LastFailedAttemptAt, record.LockedUntil,
		record.LockedByAdmin, record.PendingOtpCode, record.OtpExpiresAt,
		record.PasswordLastChangedAt, record.PasswordMustBeReset, record.Exempt, record.Version)
	if err != nil {
		return fmt.Errorf("failed to save security record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrVersionConflict
	}
	record.Version++

	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListLocked(ctx context.Context, now time.Time) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.email, u.username
		FROM users u
		JOIN user_security_records s ON s.user_id = u.id
		WHERE s.locked_by_admin OR (s.locked_until IS NOT NULL AND s.locked_until > $1)
		ORDER BY u.email;
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list locked users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username); err != nil {
			return nil, fmt.Errorf("failed to scan locked user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locked users: %w", err)
	}

	return users, nil
}

func (r *PostgresRepository) Append(ctx context.Context, attempt *domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, user_id, identifier, ip_address, device, location, outcome, attempt_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, attempt.ID, attempt.UserID, attempt.Identifier, attempt.IPAddress,
		attempt.Device, attempt.Location, attempt.Outcome, attempt.AttemptTime)
	if err != nil {
		return fmt.Errorf("failed to append login attempt: %w", err)
	}

	return nil
}

