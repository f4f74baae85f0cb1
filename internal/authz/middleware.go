package authz

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-management/internal/auth"
)

// Middleware guards routes with explicit (action, resource) pairs. The
// authenticated user comes from the auth middleware's context entry; there
// is no argument sniffing, every guard names exactly what it protects.
type Middleware struct {
	engine *Engine
	logger *slog.Logger
}

func NewMiddleware(engine *Engine, logger *slog.Logger) *Middleware {
	return &Middleware{
		engine: engine,
		logger: logger,
	}
}

// Require returns middleware that allows the request through only when the
// engine grants (action, resource) for the authenticated user.
func (m *Middleware) Require(action Action, resourceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFromContext(r.Context())
			if !ok || u == nil {
				m.logger.Warn("authorization check failed: user not found in context")
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			granted, err := m.engine.Authorize(r.Context(), u.ID, action, resourceName)
			if err != nil {
				m.logger.ErrorContext(r.Context(), "authorization check failed",
					"error", err,
					"user_id", u.ID,
					"action", action,
					"resource", resourceName)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !granted {
				m.logger.WarnContext(r.Context(), "access denied",
					"user_id", u.ID,
					"action", action,
					"resource", resourceName)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DecisionCache installs the request-scoped memoization used by Authorize.
// Mount it once, above every guarded group.
func (m *Middleware) DecisionCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithDecisionCache(r.Context())))
	})
}
