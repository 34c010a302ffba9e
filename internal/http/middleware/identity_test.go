package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
)

const secret = "test-secret"

func signToken(userID int64, role model.Role, key string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(key))
	Expect(err).NotTo(HaveOccurred())
	return signed
}

var _ = Describe("Identity middleware", func() {
	var (
		router *gin.Engine
		seen   *service.Identity
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		seen = nil

		router = gin.New()
		router.Use(middleware.Identity(secret))
		router.GET("/me", func(c *gin.Context) {
			identity, ok := middleware.GetIdentity(c)
			Expect(ok).To(BeTrue())
			seen = &identity
			c.Status(http.StatusOK)
		})
		router.GET("/admin", middleware.RequireTeamlead(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	})

	It("extracts the user id and role from a valid token", func() {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(7, model.RoleTeamlead, secret))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(seen).NotTo(BeNil())
		Expect(seen.UserID).To(Equal(int64(7)))
		Expect(seen.Role).To(Equal(model.RoleTeamlead))
	})

	It("rejects a missing bearer token", func() {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a token signed with the wrong key", func() {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(7, model.RoleTeamlead, "other-secret"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an expired token", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "7",
			"role": "teamlead",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	Describe("RequireTeamlead", func() {
		It("admits a teamlead", func() {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(7, model.RoleTeamlead, secret))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("rejects a regular user", func() {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(8, model.RoleRegular, secret))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
