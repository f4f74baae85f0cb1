package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/access-management/internal/transport"
	"github.com/frahmantamala/access-management/internal/user"
	"github.com/frahmantamala/access-management/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler() *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
	}
}

// currentEmail echoes which account the grant was evaluated for. Guards run
// before these handlers, so a missing user means a wiring bug, not a client
// error.
func currentEmail(r *http.Request) string {
	if u, ok := user.FromContext(r.Context()); ok && u != nil {
		return u.Email
	}
	return ""
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"products": Products(),
		"user":     currentEmail(r),
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "product_id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	h.WriteJSON(w, http.StatusOK, ProductByID(id))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": Orders(),
		"user":   currentEmail(r),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "order_id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	h.WriteJSON(w, http.StatusOK, OrderByID(id))
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"customers": Customers(),
		"user":      currentEmail(r),
	})
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "customer_id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	h.WriteJSON(w, http.StatusOK, CustomerByID(id))
}
