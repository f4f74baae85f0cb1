package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/access-management/internal/core/datamodel/rbac"
	rbacDomain "github.com/frahmantamala/access-management/internal/rbac"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateRole(ctx context.Context, role *rbac.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *Repository) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	var roles []rbac.Role
	if err := r.db.WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *Repository) GetRoleByID(ctx context.Context, id string) (*rbac.Role, error) {
	var role rbac.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rbacDomain.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *Repository) CreateResource(ctx context.Context, res *rbac.Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *Repository) ListResources(ctx context.Context) ([]rbac.Resource, error) {
	var resources []rbac.Resource
	if err := r.db.WithContext(ctx).Order("name").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *Repository) GetResourceByID(ctx context.Context, id string) (*rbac.Resource, error) {
	var res rbac.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rbacDomain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *Repository) GetResourceByName(ctx context.Context, name string) (*rbac.Resource, error) {
	var res rbac.Resource
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rbacDomain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *Repository) CreatePermission(ctx context.Context, perm *rbac.Permission) error {
	return r.db.WithContext(ctx).Create(perm).Error
}

func (r *Repository) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	var perms []rbac.Permission
	if err := r.db.WithContext(ctx).Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *Repository) GetPermissionByID(ctx context.Context, id string) (*rbac.Permission, error) {
	var perm rbac.Permission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rbacDomain.ErrNotFound
		}
		return nil, err
	}
	return &perm, nil
}

func (r *Repository) CreateUserRole(ctx context.Context, ur *rbac.UserRole) error {
	return r.db.WithContext(ctx).Create(ur).Error
}

func (r *Repository) ListUserRoles(ctx context.Context, userID string) ([]rbac.UserRole, error) {
	var assignments []rbac.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *Repository) CreateRolePermission(ctx context.Context, rp *rbac.RolePermission) error {
	return r.db.WithContext(ctx).Create(rp).Error
}

// UpsertUserPermission updates the existing override for (user, permission)
// when one exists, so repeated grants flip is_granted instead of stacking
// conflicting rows.
func (r *Repository) UpsertUserPermission(ctx context.Context, up *rbac.UserPermission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing rbac.UserPermission
		err := tx.Where("user_id = ? AND permission_id = ?", up.UserID, up.PermissionID).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(up).Error
			}
			return err
		}

		if err := tx.Model(&rbac.UserPermission{}).
			Where("id = ?", existing.ID).
			Update("is_granted", up.IsGranted).Error; err != nil {
			return err
		}
		up.ID = existing.ID
		up.AssignedAt = existing.AssignedAt
		return nil
	})
}

func (r *Repository) ListUserPermissions(ctx context.Context, userID string) ([]rbac.UserPermission, error) {
	var overrides []rbac.UserPermission
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}
