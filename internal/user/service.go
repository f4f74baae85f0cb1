package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/core/events"
)

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	Update(ctx context.Context, u *User) error
	// Deactivate flips is_active on the user and on every session the user
	// owns, as ordered steps inside a single transaction.
	Deactivate(ctx context.Context, userID string) error
}

type Service struct {
	repo   Repository
	events *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: bus,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	u.Name = dto.Name
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// DeleteProfile soft-deletes the account: the user row is deactivated and all
// sessions are revoked. Rows are never removed, grants and sessions keep
// referencing the user.
func (s *Service) DeleteProfile(ctx context.Context, userID string) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewUserDeactivated(userID)); err != nil {
			s.logger.Warn("failed to publish user deactivated event", "user_id", userID, "error", err)
		}
	}

	return nil
}
