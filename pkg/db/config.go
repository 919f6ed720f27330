package db

import (
	"os"
	"strconv"
)

type PostgresConfig struct {
	// URL, when set, is used verbatim as the DSN and the individual
	// fields are ignored. Matches the DATABASE_URL deployment convention.
	URL string

	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func LoadPostgresConfig() PostgresConfig {
	port, _ := strconv.Atoi(getenv("DB_PORT", "5432"))

	return PostgresConfig{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     getenv("DB_HOST", "localhost"),
		Port:     port,
		User:     getenv("DB_USER", "postgres"),
		Password: getenv("DB_PASSWORD", "postgres"),
		DBName:   getenv("DB_NAME", "storefront"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
