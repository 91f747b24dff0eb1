package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.public)
	assert.Empty(t, r.protected)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup_PublicAndProtected(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	r := NewRouter(engine, WithAuth(deny))

	open := NewDomainGroup("open", "/open")
	open.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	closed := NewDomainGroup("closed", "/closed")
	closed.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	r.Public(open).Protected(closed)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/open/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/closed/ping").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("tasks", "/tasks")
		assert.Equal(t, "tasks", g.Name())
		assert.Equal(t, "/tasks", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("test", "/test")
		g.GET("/items", ok).
			POST("/items", ok).
			PUT("/items/:id", ok).
			PATCH("/items/:id", ok).
			DELETE("/items/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct{ method, path string }{
			{http.MethodGet, "/api/v1/test/items"},
			{http.MethodPost, "/api/v1/test/items"},
			{http.MethodPut, "/api/v1/test/items/1"},
			{http.MethodPatch, "/api/v1/test/items/1"},
			{http.MethodDelete, "/api/v1/test/items/1"},
		}
		for _, tt := range tests {
			assert.Equal(t, http.StatusOK, serve(engine, tt.method, tt.path).Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("group middleware runs before per-route handlers", func(t *testing.T) {
		engine := gin.New()
		var order []string
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) { order = append(order, "group"); c.Next() })
		g.GET("/items",
			func(c *gin.Context) { order = append(order, "guard"); c.Next() },
			func(c *gin.Context) { order = append(order, "handler"); c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		serve(engine, http.MethodGet, "/api/v1/test/items")

		assert.Equal(t, []string{"group", "guard", "handler"}, order)
	})

	t.Run("subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("crm", "/crm")
		g.Group("clients", "/clients").GET("", func(c *gin.Context) { c.String(http.StatusOK, "clients") })
		g.Group("leads", "/leads").GET("", func(c *gin.Context) { c.String(http.StatusOK, "leads") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "clients", serve(engine, http.MethodGet, "/api/v1/crm/clients").Body.String())
		assert.Equal(t, "leads", serve(engine, http.MethodGet, "/api/v1/crm/leads").Body.String())
	})
}
