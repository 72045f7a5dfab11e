package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/americanbox/americanbox-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := SetupRouter(ctx, testutil.TestConfig())

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /metrics",
		"GET /api/health",
		"POST /api/register",
		"POST /api/login",
		"POST /api/logout",
		"GET /api/tracking/:guide",
		"GET /api/locations",
		"GET /api/me",
		"GET /api/client/orders",
		"POST /api/client/orders",
		"POST /api/client/orders/:id/receipt",
		"GET /api/admin/orders",
		"GET /api/admin/orders/bulk",
		"PUT /api/admin/orders/bulk",
		"GET /api/admin/orders/stats",
		"PUT /api/admin/location-settings",
		"PUT /api/admin/customers/:id",
		"GET /api/admin/reports/receivables",
	} {
		assert.True(t, registered[want], "route %s is not registered", want)
	}
}

func TestSetupRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := SetupRouter(ctx, testutil.TestConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.UseTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := SetupRouter(ctx, testutil.TestConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func loginCodes(router *gin.Engine, attempts int) []int {
	codes := make([]int, 0, attempts)
	for i := 0; i < attempts; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"nobody","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.9.9.%d", i+1))
		req.RemoteAddr = "203.0.113.7:5000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	return codes
}

func TestSetupRouter_LoginLimitIgnoresForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.UseTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := *testutil.TestConfig()
	cfg.LoginRatePerMinute = 2

	router := SetupRouter(ctx, &cfg)

	assert.Equal(t, []int{
		http.StatusUnauthorized,
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, loginCodes(router, 6))
}

func TestSetupRouter_TrustedProxyForwardsClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.UseTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := *testutil.TestConfig()
	cfg.LoginRatePerMinute = 1
	cfg.TrustedProxies = []string{"203.0.113.0/24"}

	router := SetupRouter(ctx, &cfg)

	// Each forwarded client gets its own bucket behind a trusted proxy
	for _, code := range loginCodes(router, 3) {
		assert.Equal(t, http.StatusUnauthorized, code)
	}
}
