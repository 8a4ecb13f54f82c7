package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// ─── Configuration ──────────────────────────────────────────────────────────

// Config is the daemon configuration, loaded from ~/.hearth/config.toml
// with HEARTH_* environment overrides on top.
type Config struct {
	API     APIConfig     `toml:"api" envPrefix:"HEARTH_API_"`
	State   StateConfig   `toml:"state" envPrefix:"HEARTH_STATE_"`
	Auth    AuthConfig    `toml:"auth" envPrefix:"HEARTH_AUTH_"`
	Log     LogConfig     `toml:"log" envPrefix:"HEARTH_LOG_"`
	Metrics MetricsConfig `toml:"metrics" envPrefix:"HEARTH_METRICS_"`
}

// APIConfig is the HTTP listener configuration.
type APIConfig struct {
	Host string `toml:"host" env:"HOST"`
	Port int    `toml:"port" env:"PORT"`
}

// Addr returns the host:port listen address.
func (c APIConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// StateConfig controls the snapshot database and the cross-process sync
// poller.
type StateConfig struct {
	Dir          string        `toml:"dir" env:"DIR"`
	SyncInterval time.Duration `toml:"sync_interval" env:"SYNC_INTERVAL"`
	// TickInterval drives the background scheduler (auto reset and
	// yesterday's auto-verify).
	TickInterval time.Duration `toml:"tick_interval" env:"TICK_INTERVAL"`
}

// AuthConfig controls parent session tokens.
type AuthConfig struct {
	TokenTTL time.Duration `toml:"token_ttl" env:"TOKEN_TTL"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Pretty bool   `toml:"pretty" env:"PRETTY"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7420,
		},
		State: StateConfig{
			Dir:          defaultStateDir(),
			SyncInterval: 2 * time.Second,
			TickInterval: time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hearth"
	}
	return filepath.Join(home, ".hearth")
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(defaultStateDir(), "config.toml")
}

// LoadConfig reads the TOML file at path (skipped when absent) and then
// applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env overrides: %w", err)
	}
	return cfg, nil
}
