package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/joushfoods/storefront-service/internal/config"
	"github.com/joushfoods/storefront-service/internal/service"
)

func newAdminHandler() (*AdminHandler, *service.AuthService) {
	auth := service.NewAuthService(nil, config.Config{
		AdminUsername: "admin",
		AdminPassword: "password",
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
	})
	return NewAdminHandler(auth), auth
}

func TestAdminLoginIssuesVerifiableToken(t *testing.T) {
	h, auth := newAdminHandler()

	rec := postJSON(t, h.Login, "/api/admin/login", `{"username":"admin","password":"password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] == "" {
		t.Fatal("no token in response")
	}
	if err := auth.VerifyAdminToken(resp["token"]); err != nil {
		t.Errorf("issued token failed verification: %v", err)
	}
}

func TestAdminLoginWrongCredentials(t *testing.T) {
	h, _ := newAdminHandler()

	rec := postJSON(t, h.Login, "/api/admin/login", `{"username":"admin","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "Invalid credentials" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestChangePasswordRequiresValue(t *testing.T) {
	h, _ := newAdminHandler()

	if rec := postJSON(t, h.ChangePassword, "/api/admin/settings/password", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if rec := postJSON(t, h.ChangePassword, "/api/admin/settings/password", `{"newPassword":"fresh"}`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
