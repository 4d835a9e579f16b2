package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./scroll.db" {
			t.Errorf("expected database path ./scroll.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 300 {
			t.Errorf("expected server port 300, got %d", config.Server.Port)
		}

		if config.Auth.TTL() != time.Hour {
			t.Errorf("expected token ttl of 1h, got %v", config.Auth.TTL())
		}

		if config.Auth.CookieName != "token" {
			t.Errorf("expected cookie name token, got %s", config.Auth.CookieName)
		}

		if config.Static.Dir != "./public" {
			t.Errorf("expected static dir ./public, got %s", config.Static.Dir)
		}

		if config.Auth.Secret != "" {
			t.Error("default config must not carry a secret")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[auth]
token_ttl = 60
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Host != "0.0.0.0" || config.Server.Port != 8080 {
			t.Errorf("unexpected server config: %+v", config.Server)
		}
		if config.Auth.TTL() != time.Minute {
			t.Errorf("expected ttl 1m, got %v", config.Auth.TTL())
		}
		if config.Auth.CookieName != "token" {
			t.Errorf("missing keys should keep defaults, got cookie name %q", config.Auth.CookieName)
		}
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server]\nport = 8080\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Setenv("PORT", "4242")
		t.Setenv("JWT_SECRET", "env-secret")
		t.Setenv("SCROLL_DATABASE", ":memory:")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != 4242 {
			t.Errorf("expected PORT to override file, got %d", config.Server.Port)
		}
		if config.Auth.Secret != "env-secret" {
			t.Errorf("expected secret from env, got %q", config.Auth.Secret)
		}
		if config.Database.Path != ":memory:" {
			t.Errorf("expected database path from env, got %q", config.Database.Path)
		}
	})

	t.Run("Invalid PORT", func(t *testing.T) {
		t.Setenv("PORT", "not-a-number")

		_, err := ResolveConfig(filepath.Join(t.TempDir(), "missing.toml"))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ResolveConfig without file", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected defaults, got error %v", err)
		}
		if config.Server.PortAttempts != 10 {
			t.Errorf("expected default port attempts, got %d", config.Server.PortAttempts)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "negative port", mutate: func(c *Config) { c.Server.Port = -1 }},
			{name: "empty database", mutate: func(c *Config) { c.Database.Path = "" }},
			{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }},
			{name: "empty cookie", mutate: func(c *Config) { c.Auth.CookieName = "" }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
