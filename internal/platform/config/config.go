// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server captures everything the process needs at startup.
type Server struct {
	Addr string

	// DatabaseURL selects the postgres-backed stores. Empty means the
	// in-memory stores, which is what local development and most tests use.
	DatabaseURL string

	// JWTSigningKey must be at least 32 bytes for HS256; shorter keys are a
	// deployment mistake, not something the token service works around.
	JWTSigningKey string
	TokenLifetime time.Duration

	// StreamMaxLifetime bounds how long a single event-stream connection may
	// stay open before it is force-disconnected.
	StreamMaxLifetime time.Duration
	StreamHeartbeat   time.Duration
	ListenerBuffer    int

	LogLevel string
}

// FromEnv loads .env when present, then reads configuration from environment
// variables with development-friendly defaults.
func FromEnv() Server {
	_ = godotenv.Load()

	return Server{
		Addr:              getString("AUDITCENTER_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSigningKey:     getString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production!!"),
		TokenLifetime:     getDuration("JWT_TOKEN_LIFETIME", time.Hour),
		StreamMaxLifetime: getDuration("STREAM_MAX_LIFETIME", time.Hour),
		StreamHeartbeat:   getDuration("STREAM_HEARTBEAT", 15*time.Second),
		ListenerBuffer:    getInt("STREAM_LISTENER_BUFFER", 16),
		LogLevel:          getString("LOG_LEVEL", "info"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
