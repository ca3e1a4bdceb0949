package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRouterSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("mounts routes under the version prefix", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("cart", "/cart")
		group.GET("", ok("cart"))
		group.POST("/merge", func(c *gin.Context) { c.Status(http.StatusOK) })

		NewRouter(engine).Register(group).Setup()

		assert.Equal(t, http.StatusOK, get(engine, "/api/v1/cart").Code)
		assert.Equal(t, http.StatusNotFound, get(engine, "/cart").Code)
	})

	t.Run("honors a custom API version", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("system", "/system")
		group.GET("/ping", ok("pong"))

		NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

		assert.Equal(t, http.StatusOK, get(engine, "/api/v2/system/ping").Code)
		assert.Equal(t, http.StatusNotFound, get(engine, "/api/v1/system/ping").Code)
	})

	t.Run("router middleware wraps every registered route", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("products", "/products")
		group.GET("", ok("list"))

		called := false
		NewRouter(engine).
			Use(func(c *gin.Context) { called = true; c.Next() }).
			Register(group).
			Setup()

		get(engine, "/api/v1/products")
		assert.True(t, called)
	})

	t.Run("group middleware only guards its own routes", func(t *testing.T) {
		engine := gin.New()

		open := NewDomainGroup("products", "/products")
		open.GET("", ok("list"))

		guarded := NewDomainGroup("users", "/users")
		guarded.Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		guarded.GET("", ok("users"))

		NewRouter(engine).Register(open).Register(guarded).Setup()

		assert.Equal(t, http.StatusOK, get(engine, "/api/v1/products").Code)
		assert.Equal(t, http.StatusForbidden, get(engine, "/api/v1/users").Code)
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("admin", "/admin")
		products := group.Group("admin-products", "/products")
		products.GET("", ok("admin products"))

		NewRouter(engine).Register(group).Setup()

		assert.Equal(t, http.StatusOK, get(engine, "/api/v1/admin/products").Code)
	})
}
