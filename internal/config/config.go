package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"pickchess/internal/obslog"
)

const envPrefix = "PICKCHESS_"

type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Console bool   `yaml:"console"`
	File    string `yaml:"file"`
	Caller  bool   `yaml:"caller"`
}

type AppConfig struct {
	APIHost string `yaml:"api_host"`
	APIPort int    `yaml:"api_port"`
	Dev     bool   `yaml:"dev"`

	// StoragePath is a SQLite file; DatabaseURL (postgres://) takes precedence
	StoragePath string `yaml:"storage_path"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	PIDPath string `yaml:"pid"`
	PIDLock bool   `yaml:"pid_lock"`

	Log LogConfig `yaml:"log"`
}

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		APIHost: "localhost",
		APIPort: 8080,
		Log: LogConfig{
			Level:   "info",
			Format:  "legacy",
			Console: true,
		},
	}
}

// Load applies defaults, then the YAML file at path (if non-empty), then
// PICKCHESS_* environment variables.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.APIHost, "API_HOST")
	setInt(&cfg.APIPort, "API_PORT")
	setBool(&cfg.Dev, "DEV")
	setString(&cfg.StoragePath, "STORAGE_PATH")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.PIDPath, "PID")
	setBool(&cfg.PIDLock, "PID_LOCK")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setBool(&cfg.Log.Console, "LOG_TO_CONSOLE")
	setString(&cfg.Log.File, "LOG_FILE")
	setBool(&cfg.Log.Caller, "LOG_CALLER")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Validate checks values that flags and files can get wrong
func (c *AppConfig) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api port out of range: %d", c.APIPort)
	}
	if c.PIDLock && c.PIDPath == "" {
		return errors.New("pid lock requires a pid path")
	}
	if c.DatabaseURL != "" && !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("database url must be postgres://, got %q", c.DatabaseURL)
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return fmt.Errorf("redis url must be redis:// or rediss://, got %q", c.RedisURL)
	}
	return nil
}

// LogOptions maps the log section onto obslog
func (c *AppConfig) LogOptions() obslog.Options {
	return obslog.Options{
		Level:   c.Log.Level,
		Format:  c.Log.Format,
		Console: c.Log.Console,
		File:    c.Log.File,
		Caller:  c.Log.Caller,
	}
}
