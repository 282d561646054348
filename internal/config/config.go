package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr              string
	DatabaseURL       string
	FirebaseProjectID string

	// AuthMode selects the request authentication middleware:
	// "firebase" verifies Firebase ID tokens, "jwt" verifies local HMAC tokens.
	AuthMode  string
	JWTSecret string

	SyncInterval   time.Duration
	SyncMaxRetries int
	SyncRetryDelay time.Duration

	DeliveryFee float64
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		Addr:              getenv("APP_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		AuthMode:          getenv("AUTH_MODE", "firebase"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SyncInterval:      getduration("SYNC_INTERVAL", 15*time.Minute),
		SyncMaxRetries:    getint("SYNC_MAX_RETRIES", 3),
		SyncRetryDelay:    getduration("SYNC_RETRY_DELAY", 30*time.Second),
		DeliveryFee:       getfloat("DELIVERY_FEE", 50),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
