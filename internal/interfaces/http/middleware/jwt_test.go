package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/infrastructure/auth"
	"github.com/microcredit/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newAuthRouter(jwtService *auth.JWTService, cfg JWTAuthConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(jwtService, cfg))
	router.GET("/test", handler)
	router.POST("/open", handler)
	return router
}

func TestJWTAuth(t *testing.T) {
	jwtService := newTestJWTService()
	input := auth.GenerateTokenInput{UserID: uuid.New(), Username: "operator", Role: "operator"}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)

	t.Run("valid token passes and claims land in context", func(t *testing.T) {
		router := newAuthRouter(jwtService, JWTAuthConfig{}, func(c *gin.Context) {
			assert.Equal(t, input.UserID.String(), GetUserID(c))
			assert.Equal(t, "operator", GetUsername(c))
			assert.Equal(t, "operator", GetRole(c))
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		router := newAuthRouter(jwtService, JWTAuthConfig{}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		router := newAuthRouter(jwtService, JWTAuthConfig{}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token is not accepted as access token", func(t *testing.T) {
		router := newAuthRouter(jwtService, JWTAuthConfig{}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		router := newAuthRouter(jwtService, JWTAuthConfig{SkipPaths: []string{"/open"}}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/open", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := newTestJWTService()

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(JWTAuth(jwtService, JWTAuthConfig{}), RequireRole("admin"))
		router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("admin role passes", func(t *testing.T) {
		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: uuid.New(), Username: "boss", Role: "admin",
		})
		require.NoError(t, err)

		router := newRouter()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("operator role is forbidden", func(t *testing.T) {
		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: uuid.New(), Username: "op", Role: "operator",
		})
		require.NoError(t, err)

		router := newRouter()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
