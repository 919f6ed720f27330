package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joushfoods/storefront-service/internal/service"
)

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminHandler covers back-office login and settings.
type AdminHandler struct {
	auth *service.AuthService
}

func NewAdminHandler(auth *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

// Login handles POST /api/admin/login, issuing a session token on success.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.AdminLogin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		internalError(w, "admin login", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ChangePassword handles POST /api/admin/settings/password. Credential
// storage is config-backed, so this acknowledges without persisting.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "New password required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password change simulated (implement persistent storage for production)",
	})
}
