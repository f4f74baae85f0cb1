package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/access-management/internal/auth"
	sessionDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/frahmantamala/access-management/internal/user"
	"gorm.io/gorm"
)

// Repository backs both the auth service's user lookups and the session
// store. Persistence errors propagate untouched; the service treats them as
// fatal for the request.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *Repository) Create(ctx context.Context, u *user.User) error {
	dm := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	u.ID = dm.ID
	u.CreatedAt = dm.CreatedAt
	u.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *Repository) CreateSession(ctx context.Context, userID, token string, ttl time.Duration) (*auth.Session, error) {
	dm := &sessionDatamodel.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
		IsActive:  true,
	}
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return nil, err
	}
	return auth.SessionFromDataModel(dm), nil
}

// FindActiveSession applies the time filter in the query itself: a row whose
// is_active flag was never flipped but whose expiry has passed must not come
// back.
func (r *Repository) FindActiveSession(ctx context.Context, token string) (*auth.Session, error) {
	var dm sessionDatamodel.Session
	err := r.db.WithContext(ctx).
		Where("token = ? AND is_active = ? AND expires_at > ?", token, true, time.Now()).
		First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return auth.SessionFromDataModel(&dm), nil
}

// DeactivateAllSessions runs as one transaction scoped to the user so a
// concurrent login either commits before it (and is revoked with the rest)
// or after it (and survives untouched).
func (r *Repository) DeactivateAllSessions(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&sessionDatamodel.Session{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error
	})
}

// SessionStoreAdapter exposes the repository through the auth.SessionStore
// contract.
type SessionStoreAdapter struct {
	repo *Repository
}

func NewSessionStore(repo *Repository) *SessionStoreAdapter {
	return &SessionStoreAdapter{repo: repo}
}

func (a *SessionStoreAdapter) Create(ctx context.Context, userID, token string, ttl time.Duration) (*auth.Session, error) {
	return a.repo.CreateSession(ctx, userID, token, ttl)
}

func (a *SessionStoreAdapter) FindActive(ctx context.Context, token string) (*auth.Session, error) {
	return a.repo.FindActiveSession(ctx, token)
}

func (a *SessionStoreAdapter) DeactivateAll(ctx context.Context, userID string) error {
	return a.repo.DeactivateAllSessions(ctx, userID)
}
