// Package config reads the API settings from the environment, loading a
// .env file first when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port           string
	JWTSecret      string
	JWTTTL         time.Duration
	JWTIssuer      string
	JWTAudience    string
	AllowedOrigins []string
	WebhookURL     string
	BodyLimitBytes int64
	CookieSecure   bool
}

// Load reads .env files (missing files are ignored) and then the process
// environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getenv("JWT_ISSUER", "prism"),
		JWTAudience:    getenv("JWT_AUDIENCE", "deal-desk"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		CookieSecure:   os.Getenv("COOKIE_SECURE") == "true",
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "15m"))
	if err != nil {
		return cfg, fmt.Errorf("JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	mb, err := strconv.ParseInt(getenv("BODY_LIMIT_MB", "25"), 10, 64)
	if err != nil || mb <= 0 {
		return cfg, fmt.Errorf("BODY_LIMIT_MB must be a positive integer")
	}
	cfg.BodyLimitBytes = mb << 20
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
