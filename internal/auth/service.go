package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/core/events"
	"github.com/frahmantamala/access-management/internal/user"
)

// UserRepository is the slice of user storage the auth service needs.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*user.User, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	ResolveToken(ctx context.Context, token string) (*user.User, error)
}

// Service wires the credential verifier, token codec and session store into
// the login/logout/resolve lifecycle.
type Service struct {
	users      UserRepository
	sessions   SessionStore
	codec      TokenCodec
	tokenTTL   time.Duration
	bcryptCost int
	events     *events.EventBus
	logger     *slog.Logger
}

func NewService(users UserRepository, sessions SessionStore, codec TokenCodec, tokenTTL time.Duration, bcryptCost int, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		codec:      codec,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		events:     bus,
		logger:     logger,
	}
}

// Register creates a new active user. The password confirmation check runs
// before anything touches storage, so a mismatch never leaves a row behind.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Password != dto.PasswordConfirm {
		return nil, internal.ErrPasswordMismatch
	}

	existing, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateEmail
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewUserRegistered(u.ID, u.Email)); err != nil {
			s.logger.Warn("failed to publish user registered event", "user_id", u.ID, "error", err)
		}
	}

	return u, nil
}

// Login verifies credentials, issues a bearer token and records the session.
// A missing user and a wrong password produce the identical outcome so login
// failures never reveal whether an email exists.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !u.IsActive {
		return nil, internal.ErrAccountDeactivated
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	token, expiresAt, err := s.codec.Issue(u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	sess, err := s.sessions.Create(ctx, u.ID, token, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewUserLoggedIn(u.ID, sess.ID)); err != nil {
			s.logger.Warn("failed to publish user logged in event", "user_id", u.ID, "error", err)
		}
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        u,
	}, nil
}

// Logout revokes every session of the user. Idempotent: logging out twice is
// not an error.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.DeactivateAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to deactivate sessions: %w", err)
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewUserLoggedOut(userID)); err != nil {
			s.logger.Warn("failed to publish user logged out event", "user_id", userID, "error", err)
		}
	}

	return nil
}

// ResolveToken is the single authentication gate. Each step fails closed on
// its own: a cryptographically valid token is useless once its session is
// revoked, and a live session is useless once the account is deactivated.
func (s *Service) ResolveToken(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.codec.Validate(token)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	sess, err := s.sessions.FindActive(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if sess == nil {
		return nil, internal.ErrSessionExpired
	}

	u, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, internal.ErrAccountDeactivated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !u.IsActive {
		return nil, internal.ErrAccountDeactivated
	}

	return u, nil
}
