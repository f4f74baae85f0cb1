package session

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session rows are append-only: logout and account deletion flip IsActive
// instead of deleting, so the table doubles as an audit trail.
type Session struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"column:user_id;not null;index"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
}

func (Session) TableName() string {
	return "user_sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
