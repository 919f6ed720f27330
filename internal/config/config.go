package config

import (
	"os"
	"strings"
	"time"
)

// Config carries everything outside the database layer: listen port,
// back-office credentials, the session signing key and the browser
// origins allowed to call the API. All values come from the environment
// with development fallbacks.
type Config struct {
	Port           string
	AdminUsername  string
	AdminPassword  string
	JWTSecret      string
	SessionTTL     time.Duration
	AllowedOrigins []string
}

func Load() Config {
	ttl := time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}

	return Config{
		Port:           getEnv("PORT", "4000"),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "password"),
		JWTSecret:      getEnv("JWT_SECRET", "devsecret-change-me"),
		SessionTTL:     ttl,
		AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
