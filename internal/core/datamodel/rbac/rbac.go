package rbac

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          string    `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Resource struct {
	ID           string    `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null;index"`
	Description  string    `gorm:"column:description"`
	ResourceType string    `gorm:"column:resource_type;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Permission struct {
	ID          string    `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Action      string    `gorm:"column:action;not null"`
	ResourceID  string    `gorm:"column:resource_id;not null;index"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

type UserRole struct {
	ID         string    `gorm:"primaryKey"`
	UserID     string    `gorm:"column:user_id;not null;index"`
	RoleID     string    `gorm:"column:role_id;not null;index"`
	AssignedAt time.Time `gorm:"column:assigned_at;autoCreateTime"`
}

type RolePermission struct {
	ID           string    `gorm:"primaryKey"`
	RoleID       string    `gorm:"column:role_id;not null;index"`
	PermissionID string    `gorm:"column:permission_id;not null;index"`
	AssignedAt   time.Time `gorm:"column:assigned_at;autoCreateTime"`
}

// UserPermission is a direct per-user override. When a row matches, its
// IsGranted value is authoritative and role grants are never consulted.
// No gorm default on IsGranted: a default tag would make gorm swap an
// explicit deny (false) for the column default on insert.
type UserPermission struct {
	ID           string    `gorm:"primaryKey"`
	UserID       string    `gorm:"column:user_id;not null;index"`
	PermissionID string    `gorm:"column:permission_id;not null;index"`
	IsGranted    bool      `gorm:"column:is_granted"`
	AssignedAt   time.Time `gorm:"column:assigned_at;autoCreateTime"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (ur *UserRole) BeforeCreate(tx *gorm.DB) error {
	if ur.ID == "" {
		ur.ID = uuid.NewString()
	}
	return nil
}

func (rp *RolePermission) BeforeCreate(tx *gorm.DB) error {
	if rp.ID == "" {
		rp.ID = uuid.NewString()
	}
	return nil
}

func (up *UserPermission) BeforeCreate(tx *gorm.DB) error {
	if up.ID == "" {
		up.ID = uuid.NewString()
	}
	return nil
}
