package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joushfoods/storefront-service/internal/config"
	"github.com/joushfoods/storefront-service/internal/service"
)

type stubVerifier struct{ err error }

func (s stubVerifier) VerifyAdminToken(string) error { return s.err }

func protected(v TokenVerifier) http.Handler {
	return RequireAdmin(v)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireAdminNoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	protected(stubVerifier{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"error\":\"Unauthorized\"}\n" {
		t.Errorf("body = %q", got)
	}
}

func TestRequireAdminRejectedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	protected(stubVerifier{err: errors.New("bad token")}).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAdminMalformedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	protected(stubVerifier{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

// End to end with the real verifier: a token minted at login passes the gate.
func TestRequireAdminWithIssuedToken(t *testing.T) {
	auth := service.NewAuthService(nil, config.Config{
		AdminUsername: "admin",
		AdminPassword: "password",
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
	})
	token, err := auth.AdminLogin("admin", "password")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(auth).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}
