// Package config provides YAML-based configuration loading for mgmtbridge.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	// Listen is the address the management transport listens on
	Listen string `mapstructure:"listen"`

	// Store controls the configuration store
	Store StoreConfig `mapstructure:"store"`

	// Runtime seeds the in-process framework runtime
	Runtime RuntimeConfig `mapstructure:"runtime"`

	// Log holds logging configuration
	Log LogConfig `mapstructure:"log"`
}

// StoreConfig controls where configurations are persisted.
type StoreConfig struct {
	// Dir holds one file per configuration PID
	Dir string `mapstructure:"dir"`
	// Watch reloads configurations changed on disk by other processes
	Watch bool `mapstructure:"watch"`
}

// RuntimeConfig seeds the in-process framework runtime.
type RuntimeConfig struct {
	// SeedBundles are bundle locations installed at startup
	SeedBundles []string `mapstructure:"seed_bundles"`
	// InitialStartLevel is the start level given to newly installed bundles
	InitialStartLevel int32 `mapstructure:"initial_start_level"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: "127.0.0.1:9099",
		Store: StoreConfig{
			Dir:   "./data/config",
			Watch: true,
		},
		Runtime: RuntimeConfig{
			InitialStartLevel: 1,
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/mgmtbridge.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix MGMTBRIDGE and `.`/`-` are replaced with `_`.
// Example: MGMTBRIDGE_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MGMTBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("listen", cfg.Listen)
	v.SetDefault("store.dir", cfg.Store.Dir)
	v.SetDefault("store.watch", cfg.Store.Watch)
	v.SetDefault("runtime.seed_bundles", cfg.Runtime.SeedBundles)
	v.SetDefault("runtime.initial_start_level", cfg.Runtime.InitialStartLevel)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	if path == "" {
		if envPath := os.Getenv("MGMTBRIDGE_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mgmtbridge")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mgmtbridge"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	if strings.TrimSpace(c.Listen) == "" {
		return errors.New("listen address is required")
	}
	if strings.TrimSpace(c.Store.Dir) == "" {
		return errors.New("store.dir is required")
	}
	if c.Runtime.InitialStartLevel < 1 {
		return fmt.Errorf("invalid runtime.initial_start_level: %d", c.Runtime.InitialStartLevel)
	}
	return nil
}
