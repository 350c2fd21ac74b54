package config

import (
	"testing"
	"time"
)

func TestLoadRequiresUserID(t *testing.T) {
	t.Setenv("USER_ID", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without USER_ID")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("USER_ID", "u1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.ReconnectAttempts != 5 {
		t.Errorf("ReconnectAttempts = %d", cfg.ReconnectAttempts)
	}
	if cfg.PopupTTL != 3500*time.Millisecond {
		t.Errorf("PopupTTL = %v", cfg.PopupTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("USER_ID", "u1")
	t.Setenv("SOCKET_URL", "ws://example.test/ws")
	t.Setenv("RECONNECT_ATTEMPTS", "2")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("RECONNECT_DELAY", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketURL != "ws://example.test/ws" {
		t.Errorf("SocketURL = %q", cfg.SocketURL)
	}
	if cfg.ReconnectAttempts != 2 {
		t.Errorf("ReconnectAttempts = %d", cfg.ReconnectAttempts)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.ReconnectDelay != time.Second {
		t.Errorf("bad duration must fall back, got %v", cfg.ReconnectDelay)
	}
}
