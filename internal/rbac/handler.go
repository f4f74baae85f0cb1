package rbac

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/transport"
	"github.com/frahmantamala/access-management/pkg/logger"
	"github.com/go-chi/chi"
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

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.Service.CreateRole(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err, "create role failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "list roles failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Service.GetRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "get role failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var dto CreateResourceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.CreateResource(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err, "create resource failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.Service.ListResources(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "list resources failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, resources)
}

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var dto CreatePermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	perm, err := h.Service.CreatePermission(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err, "create permission failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, perm)
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListPermissions(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "list permissions failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, perms)
}

func (h *Handler) AttachPermission(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PermissionID string `json:"permission_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.PermissionID == "" {
		h.WriteError(w, http.StatusBadRequest, "permission_id is required")
		return
	}

	if err := h.Service.AttachPermission(r.Context(), chi.URLParam(r, "id"), body.PermissionID); err != nil {
		h.writeServiceError(w, err, "attach permission failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]string{"message": "permission attached"})
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var dto AssignRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ur, err := h.Service.AssignRole(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err, "assign role failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, ur)
}

func (h *Handler) ListUserRoles(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	assignments, err := h.Service.ListUserRoles(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "list user roles failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, assignments)
}

func (h *Handler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	var dto GrantPermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	up, err := h.Service.GrantPermission(r.Context(), dto)
	if err != nil {
		h.writeServiceError(w, err, "grant permission failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, up)
}

func (h *Handler) ListUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	overrides, err := h.Service.ListUserPermissions(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "list user permissions failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, overrides)
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
