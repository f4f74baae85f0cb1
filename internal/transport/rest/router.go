package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-management/internal/auth"
	"github.com/frahmantamala/access-management/internal/authz"
	"github.com/frahmantamala/access-management/internal/catalog"
	"github.com/frahmantamala/access-management/internal/rbac"
	"github.com/frahmantamala/access-management/internal/transport/middleware"
	"github.com/frahmantamala/access-management/internal/transport/swagger"
	"github.com/frahmantamala/access-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires every endpoint. Auth endpoints stay public, the
// rest live under the auth middleware, and each admin or catalog route names
// the exact (action, resource) pair it requires.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	rbacHandler *rbac.Handler,
	catalogHandler *catalog.Handler,
	authzMW *authz.Middleware,
	corsOrigins []string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(corsOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and swagger UI live at the root, outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public auth routes. Logout needs the bearer token, so it sits in
		// the protected group below.
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)
			pr.Use(authzMW.DecisionCache)

			pr.Post("/logout", authHandler.Logout)

			// Profile routes: identity comes from the token, no permission
			// guard applies to a user's own record.
			pr.Get("/profile", userHandler.GetProfile)
			pr.Put("/profile", userHandler.UpdateProfile)
			pr.Delete("/profile", userHandler.DeleteProfile)

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(authzMW.Require(authz.ActionCreate, "roles")).Post("/", rbacHandler.CreateRole)
				rr.With(authzMW.Require(authz.ActionList, "roles")).Get("/", rbacHandler.ListRoles)
				rr.With(authzMW.Require(authz.ActionRead, "roles")).Get("/{id}", rbacHandler.GetRole)
				rr.With(authzMW.Require(authz.ActionUpdate, "roles")).Post("/{id}/permissions", rbacHandler.AttachPermission)
			})

			pr.Route("/resources", func(rr chi.Router) {
				rr.With(authzMW.Require(authz.ActionCreate, "resources")).Post("/", rbacHandler.CreateResource)
				rr.With(authzMW.Require(authz.ActionList, "resources")).Get("/", rbacHandler.ListResources)
			})

			pr.Route("/permissions", func(rr chi.Router) {
				rr.With(authzMW.Require(authz.ActionCreate, "permissions")).Post("/", rbacHandler.CreatePermission)
				rr.With(authzMW.Require(authz.ActionList, "permissions")).Get("/", rbacHandler.ListPermissions)
			})

			pr.Route("/user-roles", func(rr chi.Router) {
				rr.With(authzMW.Require(authz.ActionCreate, "user_roles")).Post("/", rbacHandler.AssignRole)
				rr.With(authzMW.Require(authz.ActionList, "user_roles")).Get("/", rbacHandler.ListUserRoles)
			})

			pr.Route("/user-permissions", func(rr chi.Router) {
				rr.With(authzMW.Require(authz.ActionCreate, "user_permissions")).Post("/", rbacHandler.GrantPermission)
				rr.With(authzMW.Require(authz.ActionList, "user_permissions")).Get("/", rbacHandler.ListUserPermissions)
			})

			pr.Route("/products", func(cr chi.Router) {
				cr.With(authzMW.Require(authz.ActionList, "products")).Get("/", catalogHandler.ListProducts)
				cr.With(authzMW.Require(authz.ActionRead, "products")).Get("/{product_id}", catalogHandler.GetProduct)
			})

			pr.Route("/orders", func(cr chi.Router) {
				cr.With(authzMW.Require(authz.ActionList, "orders")).Get("/", catalogHandler.ListOrders)
				cr.With(authzMW.Require(authz.ActionRead, "orders")).Get("/{order_id}", catalogHandler.GetOrder)
			})

			pr.Route("/customers", func(cr chi.Router) {
				cr.With(authzMW.Require(authz.ActionList, "customers")).Get("/", catalogHandler.ListCustomers)
				cr.With(authzMW.Require(authz.ActionRead, "customers")).Get("/{customer_id}", catalogHandler.GetCustomer)
			})
		})
	})
}
