package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRouter_RecoversPanic(t *testing.T) {
	r := NewRouter(zap.NewNop(), Options{
		Mode: gin.TestMode,
		Recovery: func(c *gin.Context, _ any) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "contact admin"})
		},
	})
	r.GET("/boom", func(*gin.Context) { panic("db exploded") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"msg":"contact admin"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "db exploded")
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	r := NewRouter(zap.NewNop(), Options{Mode: gin.TestMode, CORSOrigins: []string{"https://shop.example"}})
	r.GET("/api/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestBuildServer(t *testing.T) {
	srv := BuildServer(Addr("127.0.0.1", 8080), http.NewServeMux(), time.Second, 2*time.Second, 3*time.Second)
	assert.Equal(t, "127.0.0.1:8080", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
}

func TestNewRouter_NamedLogger(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := NewRouter(zap.New(core), Options{
		Name: "http",
		Mode: gin.TestMode,
		Recovery: func(c *gin.Context, _ any) {
			c.AbortWithStatus(http.StatusInternalServerError)
		},
	})
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotEmpty(t, logs.All())
	assert.Equal(t, "http", logs.All()[0].LoggerName)
}
