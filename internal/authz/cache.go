package authz

import (
	"context"
	"sync"
)

type cacheCtxKey string

const decisionCacheKey cacheCtxKey = "authz_decision_cache"

type decisionKey struct {
	userID   string
	action   Action
	resource string
}

// decisionCache memoizes decisions for the lifetime of one request.
// Permissions are not expected to change mid-request, so repeated checks for
// the same (user, action, resource) can skip the store.
type decisionCache struct {
	mu        sync.Mutex
	decisions map[decisionKey]bool
}

// WithDecisionCache installs a request-scoped decision cache on the context.
func WithDecisionCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, decisionCacheKey, &decisionCache{
		decisions: make(map[decisionKey]bool),
	})
}

func decisionCacheFromContext(ctx context.Context) (*decisionCache, bool) {
	c, ok := ctx.Value(decisionCacheKey).(*decisionCache)
	return c, ok
}

func (c *decisionCache) get(userID string, action Action, resource string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	granted, ok := c.decisions[decisionKey{userID: userID, action: action, resource: resource}]
	return granted, ok
}

func (c *decisionCache) put(userID string, action Action, resource string, granted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decisions[decisionKey{userID: userID, action: action, resource: resource}] = granted
}
