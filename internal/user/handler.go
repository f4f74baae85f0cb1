package user

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
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetProfile returns the authenticated user's own record.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok || u == nil {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	current, err := h.Service.GetByID(r.Context(), u.ID)
	if err != nil {
		h.writeServiceError(w, err, "get profile failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, current)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok || u == nil {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateProfile(r.Context(), u.ID, dto)
	if err != nil {
		h.writeServiceError(w, err, "update profile failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteProfile deactivates the account and revokes every session. The bearer
// token used for this request stops working once the response is written.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok || u == nil {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	if err := h.Service.DeleteProfile(r.Context(), u.ID); err != nil {
		h.writeServiceError(w, err, "delete profile failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "account deactivated"})
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
