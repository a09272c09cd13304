package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Settings  SettingsConfig  `yaml:"settings"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path   string `yaml:"path"`
	Level  string `yaml:"level"`
	Format string `yaml:"format,omitempty"` // "text" (default) or "json", file output only
}

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StorageConfig selects the persistence substrate for user settings.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // "sqlite", "postgres", "memory"
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// TelemetryConfig holds settings for the telemetry source and loop.
type TelemetryConfig struct {
	Source    string     `yaml:"source"` // "mock"
	Interval  Duration   `yaml:"interval"`
	Logbook   Distance   `yaml:"logbook"`   // log an entry every N travelled
	Heartbeat Duration   `yaml:"heartbeat"` // periodic status line
	Mock      MockConfig `yaml:"mock"`
}

// MockConfig drives the simulated boat.
type MockConfig struct {
	StartLat      float64  `yaml:"start_lat"`
	StartLon      float64  `yaml:"start_lon"`
	WaypointLat   float64  `yaml:"waypoint_lat"`
	WaypointLon   float64  `yaml:"waypoint_lon"`
	ArrivalRadius Distance `yaml:"arrival_radius"`
	Speed         float64  `yaml:"speed"`      // m/s
	Depth         float64  `yaml:"depth"`      // m, mean
	WindFrom      float64  `yaml:"wind_from"`  // degrees true
	WindSpeed     float64  `yaml:"wind_speed"` // m/s
}

// SettingsConfig holds settings store behaviour.
type SettingsConfig struct {
	PersistTimeout Duration `yaml:"persist_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: "./data/killick.db",
		},
		Server: ServerConfig{
			Address: "localhost:1921",
		},
		Telemetry: TelemetryConfig{
			Source:    "mock",
			Interval:  Duration(1 * time.Second),
			Logbook:   Distance(1852),
			Heartbeat: Duration(1 * time.Minute),
			Mock: MockConfig{
				// Solent, Cowes to Hamble
				StartLat:      50.7660,
				StartLon:      -1.2980,
				WaypointLat:   50.8470,
				WaypointLon:   -1.3110,
				ArrivalRadius: Distance(200),
				Speed:         3.1,
				Depth:         12,
				WindFrom:      225,
				WindSpeed:     7.5,
			},
		},
		Settings: SettingsConfig{
			PersistTimeout: Duration(2 * time.Second),
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Env fallback, never written back to disk
	if cfg.Storage.PostgresDSN == "" {
		if dsn := os.Getenv("KILLICK_POSTGRES_DSN"); dsn != "" {
			cfg.Storage.PostgresDSN = dsn
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for backend %q", BackendSQLite)
		}
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn (or KILLICK_POSTGRES_DSN) is required for backend %q", BackendPostgres)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Telemetry.Interval <= 0 {
		return fmt.Errorf("telemetry.interval must be positive, got %s", time.Duration(c.Telemetry.Interval))
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Killick Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles), ft (feet)

`)
	data = append(header, data...)

	reBackend := regexp.MustCompile(`(?m)^(\s+)backend:`)
	data = reBackend.ReplaceAll(data, []byte("${1}# Options: sqlite, postgres, memory\n${1}backend:"))

	reSource := regexp.MustCompile(`(?m)^(\s+)source:`)
	data = reSource.ReplaceAll(data, []byte("${1}# Options: mock\n${1}source:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
