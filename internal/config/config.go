// Package config loads client settings from the environment, with a .env
// file as the local-development source.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the client binaries need to talk to a backend.
type Config struct {
	// APIBaseURL is the REST origin, e.g. http://localhost:8080.
	APIBaseURL string

	// SocketURL is the realtime endpoint, e.g. ws://localhost:8080/ws.
	SocketURL string

	// AuthToken is the bearer credential. Empty means not logged in.
	AuthToken string

	// UserID identifies the local user in optimistic sends and unread logic.
	UserID string

	RequestTimeout time.Duration
	PopupTTL       time.Duration

	ReconnectAttempts int
	ReconnectDelay    time.Duration

	// ListenAddr is only used by the bundled development server.
	ListenAddr string
}

// Load reads .env if present, then the process environment. Only the user id
// is strictly required for the realtime client to make sense.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{
		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8080"),
		SocketURL:         getEnv("SOCKET_URL", "ws://localhost:8080/ws"),
		AuthToken:         getEnv("AUTH_TOKEN", ""),
		UserID:            getEnv("USER_ID", ""),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		PopupTTL:          getEnvDuration("POPUP_TTL", 3500*time.Millisecond),
		ReconnectAttempts: getEnvInt("RECONNECT_ATTEMPTS", 5),
		ReconnectDelay:    getEnvDuration("RECONNECT_DELAY", time.Second),
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
	}

	if cfg.UserID == "" {
		return nil, fmt.Errorf("config: USER_ID is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
