package postgres

import (
	"context"
	"errors"
	"time"

	sessionDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/frahmantamala/access-management/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *Repository) Update(ctx context.Context, u *user.User) error {
	result := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":       u.Name,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes the account. The user row and every session flip to
// inactive inside one transaction so a crash cannot leave live sessions on a
// deactivated account.
func (r *Repository) Deactivate(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"is_active":  false,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return user.ErrNotFound
		}

		return tx.Model(&sessionDatamodel.Session{}).
			Where("user_id = ?", userID).
			Update("is_active", false).Error
	})
}
