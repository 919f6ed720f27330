package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TokenVerifier validates an admin session token.
type TokenVerifier interface {
	VerifyAdminToken(token string) error
}

// RequireAdmin gates back-office routes behind a bearer session token.
func RequireAdmin(auth TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || auth.VerifyAdminToken(token) != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
