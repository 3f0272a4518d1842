package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-admin/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(backOfficeURL string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", Env: "test"},
		Upstream: config.UpstreamConfig{BaseURL: backOfficeURL, Timeout: 2 * time.Second},
		Dashboard: config.DashboardConfig{
			FallbackMode:       "auto",
			UserNotFoundPolicy: "synthetic",
			RevenueSeries:      "synthetic",
		},
	}
}

func serve(t *testing.T, s *Server, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestNewServer_ForwardsBearerToBackOffice(t *testing.T) {
	var seen []string
	backOffice := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"GHN","active":true,"cost_per_km":5000,"base_cost":15000}]}`))
	}))
	defer backOffice.Close()

	s, err := NewServer(testConfig(backOffice.URL), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	rec := serve(t, s, "/api/shipping/providers", "abc")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"live"`)
	assert.Equal(t, []string{"Bearer abc"}, seen)
}

func TestNewServer_Health(t *testing.T) {
	s, err := NewServer(testConfig("http://127.0.0.1:1"), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	rec := serve(t, s, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","fallback_mode":"auto"}`, rec.Body.String())
}

func TestNewServer_RejectsUnknownMode(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Dashboard.FallbackMode = "sometimes"

	_, err := NewServer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewServer_RateLimit(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig("http://127.0.0.1:1")
	cfg.Dashboard.FallbackMode = "synthetic"
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: mr.Port()}
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}

	s, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, http.StatusOK, serve(t, s, "/api/categories", "tok").Code)
	assert.Equal(t, http.StatusOK, serve(t, s, "/api/categories", "tok").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(t, s, "/api/categories", "tok").Code)
	assert.Equal(t, http.StatusOK, serve(t, s, "/health", "").Code)
}
