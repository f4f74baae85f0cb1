package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/access-management/internal/authz"
	"gorm.io/gorm"
)

// Repository answers the engine's two point lookups with single queries.
// Both are index-backed joins; neither scans.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindOverride(ctx context.Context, userID string, action authz.Action, resourceName string) (*bool, error) {
	query := `SELECT up.is_granted
	          FROM user_permissions up
	          JOIN permissions p ON p.id = up.permission_id
	          JOIN resources res ON res.id = p.resource_id
	          WHERE up.user_id = ? AND p.action = ? AND res.name = ?
	          LIMIT 1`

	var isGranted bool
	row := r.db.WithContext(ctx).Raw(query, userID, string(action), resourceName).Row()
	if err := row.Scan(&isGranted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &isGranted, nil
}

func (r *Repository) HasRoleGrant(ctx context.Context, userID string, action authz.Action, resourceName string) (bool, error) {
	query := `SELECT COUNT(1)
	          FROM user_roles ur
	          JOIN role_permissions rp ON rp.role_id = ur.role_id
	          JOIN permissions p ON p.id = rp.permission_id
	          JOIN resources res ON res.id = p.resource_id
	          WHERE ur.user_id = ? AND p.action = ? AND res.name = ?`

	var count int64
	row := r.db.WithContext(ctx).Raw(query, userID, string(action), resourceName).Row()
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
