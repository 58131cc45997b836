package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// AuthMode selects how a completed sign-in is delivered back to the client.
type AuthMode string

const (
	// AuthModeQuery expects the token (and optionally a user payload) as
	// query parameters on the callback URL.
	AuthModeQuery AuthMode = "query"
	// AuthModeCookie expects the backend to set a `token` cookie on the
	// callback response, with nothing visible in the URL.
	AuthModeCookie AuthMode = "cookie"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// APIConfig contains the Harmony backend base URLs.
//
// The auth and music APIs are deployed separately, mirroring the
// AUTH_URL/MUSIC_URL split the web client uses.
type APIConfig struct {
	AuthURL  string `toml:"auth_url"`
	MusicURL string `toml:"music_url"`
}

// AuthConfig contains sign-in settings.
type AuthConfig struct {
	Mode        AuthMode `toml:"mode"`
	SessionPath string   `toml:"session_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CallbackURL returns the address the identity provider redirects back to.
func (s ServerConfig) CallbackURL() string {
	return fmt.Sprintf("http://%s:%d/auth/google/callback", s.Host, s.Port)
}

// Validate checks the configuration for values the client cannot run without.
func (c *Config) Validate() error {
	if c.API.AuthURL == "" || c.API.MusicURL == "" {
		return fmt.Errorf("%w: api.auth_url and api.music_url must be set", ErrInvalidConfig)
	}

	switch c.Auth.Mode {
	case AuthModeQuery, AuthModeCookie:
	case "":
		c.Auth.Mode = AuthModeQuery
	default:
		return fmt.Errorf("%w: auth.mode must be %q or %q", ErrInvalidConfig, AuthModeQuery, AuthModeCookie)
	}

	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes the configuration back to the given path as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
