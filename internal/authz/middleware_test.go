package authz

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/access-management/internal/user"
)

var _ = ginkgo.Describe("Middleware", func() {
	var (
		mw      *Middleware
		repo    *mockAuthzRepository
		next    http.Handler
		reached bool
	)

	ginkgo.BeforeEach(func() {
		repo = newMockAuthzRepository()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		mw = NewMiddleware(NewEngine(repo, lg), lg)

		reached = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	authedRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		ctx := user.ContextWith(req.Context(), &user.User{ID: "u1", Email: "alice@example.com"})
		return req.WithContext(ctx)
	}

	ginkgo.Describe("Require", func() {
		ginkgo.It("should return 401 with a bearer challenge when no user is in context", func() {
			w := httptest.NewRecorder()
			mw.Require(ActionRead, "products")(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Header().Get("WWW-Authenticate")).To(gomega.Equal("Bearer"))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("should return 403 when the engine denies", func() {
			w := httptest.NewRecorder()
			mw.Require(ActionRead, "products")(next).ServeHTTP(w, authedRequest())

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("should call the next handler on a grant", func() {
			repo.roleGrants[overrideKey{"u1", ActionRead, "products"}] = true

			w := httptest.NewRecorder()
			mw.Require(ActionRead, "products")(next).ServeHTTP(w, authedRequest())

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reached).To(gomega.BeTrue())
		})

		ginkgo.It("should return 500 when the lookup fails", func() {
			repo.returnError = errors.New("database down")

			w := httptest.NewRecorder()
			mw.Require(ActionRead, "products")(next).ServeHTTP(w, authedRequest())

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("should guard the exact pair, not the resource alone", func() {
			repo.roleGrants[overrideKey{"u1", ActionRead, "products"}] = true

			w := httptest.NewRecorder()
			mw.Require(ActionDelete, "products")(next).ServeHTTP(w, authedRequest())

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})

	ginkgo.Describe("DecisionCache", func() {
		ginkgo.It("should let stacked guards share one lookup per pair", func() {
			repo.roleGrants[overrideKey{"u1", ActionRead, "products"}] = true

			guard := mw.Require(ActionRead, "products")
			stacked := mw.DecisionCache(guard(guard(next)))

			w := httptest.NewRecorder()
			stacked.ServeHTTP(w, authedRequest())

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(repo.overrideCalls).To(gomega.Equal(1))
			gomega.Expect(repo.roleCalls).To(gomega.Equal(1))
		})
	})
})
