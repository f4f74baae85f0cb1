package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/transport"
	"github.com/frahmantamala/access-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err, "registration failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user_id": u.ID,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err, "authentication failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	if err := h.Service.Logout(r.Context(), u.ID); err != nil {
		h.writeServiceError(w, err, "logout failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// AuthMiddleware resolves the bearer token to a live user and stores it in
// the request context. Every protected route goes through here.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		u, err := h.Service.ResolveToken(r.Context(), token)
		if err != nil {
			h.Logger.Warn("token resolution failed", "error", err)
			h.writeServiceError(w, err, "unauthorized")
			return
		}

		ctx := ContextWithUser(r.Context(), u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	h.Logger.Error(logMsg, "error", err)

	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteAppError(w, appErr)
		return
	}
	if _, ok := err.(ValidationError); ok {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
