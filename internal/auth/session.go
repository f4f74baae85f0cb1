package auth

import (
	"context"
	"time"

	sessionDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/session"
)

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
}

// SessionStore maps issued tokens to server-side session records.
type SessionStore interface {
	// Create persists a new active session with expires_at = now + ttl.
	Create(ctx context.Context, userID, token string, ttl time.Duration) (*Session, error)
	// FindActive returns the session for token only while it is both flagged
	// active and not past its expiry; a stale-but-still-flagged row is
	// treated as absent. Returns (nil, nil) when no usable session exists.
	FindActive(ctx context.Context, token string) (*Session, error)
	// DeactivateAll revokes every session owned by the user. Idempotent, and
	// runs in a single transaction scoped to that user.
	DeactivateAll(ctx context.Context, userID string) error
}

func SessionFromDataModel(s *sessionDatamodel.Session) *Session {
	return &Session{
		ID:        s.ID,
		UserID:    s.UserID,
		Token:     s.Token,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		IsActive:  s.IsActive,
	}
}
