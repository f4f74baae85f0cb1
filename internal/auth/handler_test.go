package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/access-management/internal/user"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var handler *Handler

	ginkgo.BeforeEach(func() {
		codec := NewJWTTokenCodec("test-secret-at-least-32-characters-long", time.Hour)
		service := NewService(newMockUserRepository(), newMockSessionStore(), codec, time.Hour, bcrypt.MinCost, nil, testLogger())
		handler = NewHandler(service)
	})

	ginkgo.Describe("Login endpoint", func() {
		ginkgo.It("should return a token for valid credentials", func() {
			body, _ := json.Marshal(LoginDTO{Email: "user@example.com", Password: "correct_password"})
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

			var result LoginResult
			gomega.Expect(json.NewDecoder(w.Body).Decode(&result)).To(gomega.Succeed())
			gomega.Expect(result.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(result.TokenType).To(gomega.Equal("bearer"))
			gomega.Expect(result.User.PasswordHash).To(gomega.BeEmpty())
		})

		ginkgo.It("should return 401 with a bearer challenge for bad credentials", func() {
			body, _ := json.Marshal(LoginDTO{Email: "user@example.com", Password: "wrong"})
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Header().Get("WWW-Authenticate")).To(gomega.Equal("Bearer"))
		})

		ginkgo.It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte("{not json")))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Register endpoint", func() {
		ginkgo.It("should return 409 for a duplicate email", func() {
			body, _ := json.Marshal(RegisterDTO{
				Email:           "user@example.com",
				Name:            "Dup",
				Password:        "password123",
				PasswordConfirm: "password123",
			})
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusConflict))
		})

		ginkgo.It("should return 400 when passwords do not match", func() {
			body, _ := json.Marshal(RegisterDTO{
				Email:           "new@example.com",
				Name:            "New",
				Password:        "password123",
				PasswordConfirm: "password456",
			})
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var next http.Handler
		var reachedUser *user.User

		ginkgo.BeforeEach(func() {
			reachedUser = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if u, ok := UserFromContext(r.Context()); ok {
					reachedUser = u
				}
				w.WriteHeader(http.StatusOK)
			})
		})

		login := func() string {
			result, err := handler.Service.Login(context.Background(), LoginDTO{
				Email:    "user@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			return result.AccessToken
		}

		ginkgo.It("should reject a request without a token", func() {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Header().Get("WWW-Authenticate")).To(gomega.Equal("Bearer"))
			gomega.Expect(reachedUser).To(gomega.BeNil())
		})

		ginkgo.It("should reject a non-bearer authorization header", func() {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should pass the resolved user to the next handler", func() {
			token := login()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reachedUser).ToNot(gomega.BeNil())
			gomega.Expect(reachedUser.Email).To(gomega.Equal("user@example.com"))
		})

		ginkgo.It("should reject the token after logout", func() {
			token := login()
			gomega.Expect(handler.Service.Logout(context.Background(), "user-1")).To(gomega.Succeed())

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(reachedUser).To(gomega.BeNil())
		})
	})
})
