package config

import (
	"testing"
	"time"
)

func TestLoadFromArgsDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "REDIS_URL", "RATE_LIMIT_MAX",
		"RATE_LIMIT_WINDOW", "TRUST_PROXY", "CORS_ALLOWED_ORIGINS", "FETCH_TIMEOUT",
		"FETCH_MAX_REDIRECTS", "FETCH_MAX_BODY_BYTES", "BLOCK_PRIVATE_NETWORKS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromArgs(nil)
	if err != nil {
		t.Fatalf("LoadFromArgs() error = %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Errorf("default env should be production, got %q", cfg.Env)
	}
	if cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("rate limit = %d per %s, want 100 per 15m", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.FetchTimeout != 5*time.Second || cfg.FetchMaxRedirects != 5 {
		t.Errorf("fetch = %s / %d redirects, want 5s / 5", cfg.FetchTimeout, cfg.FetchMaxRedirects)
	}
	if !cfg.BlockPrivateNetworks {
		t.Error("BlockPrivateNetworks should default to true")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORS should be disabled by default, got %v", cfg.CORSAllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFromArgsEnvironmentAndFlags(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "development")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("BLOCK_PRIVATE_NETWORKS", "false")

	cfg, err := LoadFromArgs([]string{"-port", "9090"})
	if err != nil {
		t.Fatalf("LoadFromArgs() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("flag should override env: Port = %q", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.RateLimitMax != 10 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.BlockPrivateNetworks {
		t.Error("BlockPrivateNetworks should be false")
	}
}

func TestLoadFromArgsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad int", "RATE_LIMIT_MAX", "lots"},
		{"bad duration", "FETCH_TIMEOUT", "five seconds"},
		{"bad bool", "TRUST_PROXY", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromArgs(nil); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:              "3000",
		RateLimitMax:      100,
		RateLimitWindow:   time.Minute,
		FetchTimeout:      time.Second,
		FetchMaxRedirects: 5,
		FetchMaxBodyBytes: 1024,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port not numeric", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"zero max", func(c *Config) { c.RateLimitMax = 0 }},
		{"zero window", func(c *Config) { c.RateLimitWindow = 0 }},
		{"zero timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"negative redirects", func(c *Config) { c.FetchMaxRedirects = -1 }},
		{"zero body", func(c *Config) { c.FetchMaxBodyBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
