package authz

import (
	"context"
	"fmt"
	"log/slog"
)

// Action is the closed verb set permissions are expressed in.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// Actions lists every valid action, in the order permissions are seeded.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList}
}

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Repository is the query surface the engine needs. Resource names are
// matched exactly, case-sensitive.
type Repository interface {
	// FindOverride returns the is_granted value of a direct user permission
	// for (user, action, resource), or nil when no override exists.
	FindOverride(ctx context.Context, userID string, action Action, resourceName string) (*bool, error)
	// HasRoleGrant reports whether any role held by the user grants a
	// permission matching (action, resource).
	HasRoleGrant(ctx context.Context, userID string, action Action, resourceName string) (bool, error)
}

// Engine decides allow/deny for (user, action, resource).
//
// Evaluation order is fixed: a direct per-user override is authoritative and
// short-circuits role evaluation in both directions, so an explicit deny
// blocks access even when every role the user holds would grant it. Only
// when no override exists are the user's roles consulted, as a union: one
// matching role grant is enough. Anything else is a deny.
type Engine struct {
	repo   Repository
	logger *slog.Logger
}

func NewEngine(repo Repository, logger *slog.Logger) *Engine {
	return &Engine{
		repo:   repo,
		logger: logger,
	}
}

func (e *Engine) Authorize(ctx context.Context, userID string, action Action, resourceName string) (bool, error) {
	if cache, ok := decisionCacheFromContext(ctx); ok {
		if granted, hit := cache.get(userID, action, resourceName); hit {
			return granted, nil
		}
		granted, err := e.decide(ctx, userID, action, resourceName)
		if err != nil {
			return false, err
		}
		cache.put(userID, action, resourceName, granted)
		return granted, nil
	}

	return e.decide(ctx, userID, action, resourceName)
}

func (e *Engine) decide(ctx context.Context, userID string, action Action, resourceName string) (bool, error) {
	override, err := e.repo.FindOverride(ctx, userID, action, resourceName)
	if err != nil {
		return false, fmt.Errorf("override lookup failed: %w", err)
	}
	if override != nil {
		e.logger.Debug("authorization decided by direct override",
			"user_id", userID,
			"action", action,
			"resource", resourceName,
			"granted", *override)
		return *override, nil
	}

	granted, err := e.repo.HasRoleGrant(ctx, userID, action, resourceName)
	if err != nil {
		return false, fmt.Errorf("role grant lookup failed: %w", err)
	}

	// No override and no role grant means deny. There is no implicit allow
	// anywhere in this path.
	return granted, nil
}
