package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.AuthURL != "http://localhost:4000" {
			t.Errorf("expected auth URL http://localhost:4000, got %s", config.API.AuthURL)
		}

		if config.API.MusicURL != "http://localhost:5000" {
			t.Errorf("expected music URL http://localhost:5000, got %s", config.API.MusicURL)
		}

		if config.Auth.Mode != AuthModeQuery {
			t.Errorf("expected auth mode query, got %s", config.Auth.Mode)
		}

		if config.Database.Path != "harmony.db" {
			t.Errorf("expected database path harmony.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("Defaults Empty Mode To Query", func(t *testing.T) {
			config := &Config{API: APIConfig{AuthURL: "http://auth", MusicURL: "http://music"}}

			if err := config.Validate(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Auth.Mode != AuthModeQuery {
				t.Errorf("expected query mode default, got %s", config.Auth.Mode)
			}
		})

		t.Run("Accepts Cookie Mode", func(t *testing.T) {
			config := &Config{
				API:  APIConfig{AuthURL: "http://auth", MusicURL: "http://music"},
				Auth: AuthConfig{Mode: AuthModeCookie},
			}

			if err := config.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Unknown Mode", func(t *testing.T) {
			config := &Config{
				API:  APIConfig{AuthURL: "http://auth", MusicURL: "http://music"},
				Auth: AuthConfig{Mode: "fragment"},
			}

			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Rejects Missing API URLs", func(t *testing.T) {
			config := &Config{}

			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("CallbackURL", func(t *testing.T) {
		server := ServerConfig{Host: "localhost", Port: 3000}

		want := "http://localhost:3000/auth/google/callback"
		if got := server.CallbackURL(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.API.AuthURL != defaultConfig.API.AuthURL {
			t.Errorf("created config auth URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
auth_url = "https://auth.harmony.example"
music_url = "https://music.harmony.example"

[auth]
mode = "cookie"
session_path = "/custom/session.json"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.AuthURL != "https://auth.harmony.example" {
			t.Errorf("expected custom auth URL, got %s", config.API.AuthURL)
		}

		if config.Auth.Mode != AuthModeCookie {
			t.Errorf("expected cookie mode, got %s", config.Auth.Mode)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig Rejects Invalid Mode", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
auth_url = "http://auth"
music_url = "http://music"

[auth]
mode = "fragment"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
