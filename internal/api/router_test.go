package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joushfoods/storefront-service/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "4000",
		AdminUsername:  "admin",
		AdminPassword:  "password",
		JWTSecret:      "test-secret",
		SessionTTL:     time.Hour,
		AllowedOrigins: []string{"*"},
	}
}

func TestCORSHeadersOnRequest(t *testing.T) {
	r := NewRouter(nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("no Access-Control-Allow-Origin header on cross-origin request")
	}
}

func TestCORSPreflightAllowsAdminCalls(t *testing.T) {
	r := NewRouter(nil, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/coupons/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") {
		t.Errorf("Access-Control-Allow-Methods = %q, want PATCH allowed", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(strings.ToLower(got), "authorization") {
		t.Errorf("Access-Control-Allow-Headers = %q, want Authorization allowed", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := NewRouter(nil, testConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
