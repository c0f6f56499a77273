package postgres

import (
	"context"
	"fmt"
)

// PermissionRepository answers domain.PermissionOracle from the
// role_permissions table.
type PermissionRepository struct {
	db DB
}

func NewPermissionRepository(db DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	var allowed bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM users u
			JOIN role_permissions rp ON rp.role_id = u.role_id
			WHERE u.id = $1 AND rp.permission = $2
		);
	`, userID, permission).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}

	return allowed, nil
}
