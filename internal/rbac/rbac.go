package rbac

import (
	"errors"
	"time"

	rbacDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/rbac"
)

type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Resource struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ResourceType string    `json:"resource_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Action      string    `json:"action"`
	ResourceID  string    `json:"resource_id"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserRole struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	RoleID     string    `json:"role_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type UserPermission struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PermissionID string    `json:"permission_id"`
	IsGranted    bool      `json:"is_granted"`
	AssignedAt   time.Time `json:"assigned_at"`
}

var ErrNotFound = errors.New("record not found")

func RoleFromDataModel(r *rbacDatamodel.Role) *Role {
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func ResourceFromDataModel(r *rbacDatamodel.Resource) *Resource {
	return &Resource{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		ResourceType: r.ResourceType,
		CreatedAt:    r.CreatedAt,
	}
}

func PermissionFromDataModel(p *rbacDatamodel.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Name:        p.Name,
		Action:      p.Action,
		ResourceID:  p.ResourceID,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func UserRoleFromDataModel(ur *rbacDatamodel.UserRole) *UserRole {
	return &UserRole{
		ID:         ur.ID,
		UserID:     ur.UserID,
		RoleID:     ur.RoleID,
		AssignedAt: ur.AssignedAt,
	}
}

func UserPermissionFromDataModel(up *rbacDatamodel.UserPermission) *UserPermission {
	return &UserPermission{
		ID:           up.ID,
		UserID:       up.UserID,
		PermissionID: up.PermissionID,
		IsGranted:    up.IsGranted,
		AssignedAt:   up.AssignedAt,
	}
}
