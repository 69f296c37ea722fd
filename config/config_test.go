package config

import (
	"testing"
	"time"
)

func TestLoadShouldUseDefaultsWhenUnset(t *testing.T) {
	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v, want 2s", cfg.RequestTimeout)
	}
	if cfg.QueryRetries != 5 {
		t.Errorf("QueryRetries = %d, want 5", cfg.QueryRetries)
	}
	if cfg.QueryRetryDelay != 1500*time.Millisecond {
		t.Errorf("QueryRetryDelay = %v, want 1.5s", cfg.QueryRetryDelay)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
}

func TestLoadShouldReadEnvironmentOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("QUERY_RETRIES", "2")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("DEBUG", "1")

	cfg := Load()

	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.QueryRetries != 2 {
		t.Errorf("QueryRetries = %d", cfg.QueryRetries)
	}
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if !cfg.Debug {
		t.Error("Debug should be set")
	}
}

func TestLoadShouldIgnoreMalformedValues(t *testing.T) {
	t.Setenv("QUERY_RETRIES", "lots")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg := Load()

	if cfg.QueryRetries != 5 {
		t.Errorf("QueryRetries = %d, want the default", cfg.QueryRetries)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v, want the default", cfg.RequestTimeout)
	}
}
