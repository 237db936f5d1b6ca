package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort = 8080

	// DefaultPresenceWindow is how long heartbeat silence is tolerated
	// before an identity is considered offline.
	DefaultPresenceWindow = 2 * time.Minute

	// DefaultStreamInterval is how often the WebSocket hub broadcasts the
	// presence summary.
	DefaultStreamInterval = 5 * time.Second
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on
	// (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures the API-key gate on the operator endpoints.
	Auth AuthConfig `yaml:"auth"`

	// Presence controls the heartbeat window.
	Presence PresenceConfig `yaml:"presence"`

	// Store configures the seed file backing the in-memory document store.
	Store StoreConfig `yaml:"store"`

	// Stream controls the WebSocket presence broadcast.
	Stream StreamConfig `yaml:"stream"`
}

// AuthConfig controls operator-endpoint authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the
	// expected API key. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header name to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default
// "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// PresenceConfig controls the presence registry.
type PresenceConfig struct {
	// Window is how long an identity stays online past its last heartbeat.
	// Default: 2m.
	Window time.Duration `yaml:"window"`
}

// StoreConfig configures the seed file backing the in-memory store.
type StoreConfig struct {
	// SeedPath is the YAML fixture file loaded at startup. Empty means the
	// store starts empty.
	SeedPath string `yaml:"seed_path"`

	// Watch reloads the seed file on change when true.
	Watch bool `yaml:"watch"`
}

// StreamConfig controls the WebSocket presence broadcast.
type StreamConfig struct {
	// Interval between broadcasts. Default: 5s.
	Interval time.Duration `yaml:"interval"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Presence: PresenceConfig{
				Window: DefaultPresenceWindow,
			},
			Stream: StreamConfig{
				Interval: DefaultStreamInterval,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Presence.Window <= 0 {
		return fmt.Errorf("server.presence.window must be positive")
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	return nil
}
