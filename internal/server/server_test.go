// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/decorbook/internal/config"
	"github.com/carterperez-dev/decorbook/internal/health"
)

func TestServer(t *testing.T) {
	t.Run("Should recover from handler panics", func(t *testing.T) {
		srv := New(Config{ServerConfig: config.ServerConfig{Host: "127.0.0.1", Port: 0}})
		srv.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Should fail readiness once shutdown begins", func(t *testing.T) {
		h := health.NewHandler()
		srv := New(Config{
			ServerConfig:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
			HealthHandler: h,
		})
		h.RegisterRoutes(srv.Router())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, srv.Shutdown(ctx, 0))

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
