package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/nurpe/wasteops-admin/internal/http/middleware"
)

func TestCorsConfig(t *testing.T) {
	open := corsConfig([]string{"https://a.example.com", "*"})
	assert.True(t, open.AllowAllOrigins)
	assert.False(t, open.AllowCredentials)

	strict := corsConfig([]string{"https://a.example.com"})
	assert.False(t, strict.AllowAllOrigins)
	assert.True(t, strict.AllowCredentials)
	assert.Equal(t, []string{"https://a.example.com"}, strict.AllowOrigins)
	assert.Contains(t, strict.ExposeHeaders, "Content-Disposition")
}

func TestNewRouterMountsStream(t *testing.T) {
	handler := NewHandler(Services{}, zerolog.Nop())
	streamed := false
	router := NewRouter(handler, middleware.Auth(tokenTable{}), RouterConfig{
		Environment:    "development",
		AllowedOrigins: []string{"*"},
		Stream: func(c *gin.Context) {
			streamed = true
			c.Status(http.StatusSwitchingProtocols)
		},
	}, zerolog.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.True(t, streamed)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
