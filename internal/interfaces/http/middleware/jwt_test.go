package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karma-shop/backend/internal/infrastructure/auth"
	"github.com/karma-shop/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-at-least-32-char",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "karma-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role string) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "user@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return pair.AccessToken, userID
}

func newAuthTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	r.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		r := newAuthTestRouter(JWTAuthMiddleware(svc))
		token, userID := issueToken(t, svc, "customer")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		r := newAuthTestRouter(JWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		r := newAuthTestRouter(JWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		r := newAuthTestRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService: svc,
			SkipPaths:  []string{"/public"},
		}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("blacklisted token is rejected", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		r := newAuthTestRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService:     svc,
			TokenBlacklist: blacklist,
		}))

		token, _ := issueToken(t, svc, "customer")
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	t.Run("anonymous request passes without claims", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(OptionalJWTAuthMiddleware(svc, nil))
		r.GET("/cart", func(c *gin.Context) {
			assert.Nil(t, GetJWTClaims(c))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		token, userID := issueToken(t, svc, "customer")

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(OptionalJWTAuthMiddleware(svc, nil))
		r.GET("/cart", func(c *gin.Context) {
			claims := GetJWTClaims(c)
			require.NotNil(t, claims)
			assert.Equal(t, userID.String(), claims.UserID)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid token is treated as anonymous", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(OptionalJWTAuthMiddleware(svc, nil))
		r.GET("/cart", func(c *gin.Context) {
			assert.Nil(t, GetJWTClaims(c))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("revoked token is treated as anonymous", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		token, _ := issueToken(t, svc, "customer")
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(OptionalJWTAuthMiddleware(svc, blacklist))
		r.GET("/cart", func(c *gin.Context) {
			assert.Nil(t, GetJWTClaims(c))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
