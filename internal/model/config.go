package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Data source kinds.
const (
	DataSourceFixtures = "fixtures"
	DataSourceSQLite   = "sqlite"
)

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`

	// Output is "stderr" or a file path.
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// DataConfig selects where the initial snapshot is read from.
type DataConfig struct {
	Source     string `mapstructure:"source" yaml:"source" validate:"oneof=fixtures sqlite"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path" validate:"required_if=Source sqlite"`
}

// PrefsConfig locates the persisted UI preference blob.
type PrefsConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
	Data  DataConfig  `mapstructure:"data" yaml:"data"`
	Prefs PrefsConfig `mapstructure:"prefs" yaml:"prefs"`
}

// configDir returns ~/.config/todoway, falling back to the working directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todoway")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todoway/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Data: DataConfig{
			Source:     DataSourceFixtures,
			SQLitePath: filepath.Join(configDir(), "snapshot.db"),
		},
		Prefs: PrefsConfig{
			Path: filepath.Join(configDir(), "the-todo-way-ui.yaml"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.output", def.Log.Output)
	v.SetDefault("data.source", def.Data.Source)
	v.SetDefault("data.sqlite_path", def.Data.SQLitePath)
	v.SetDefault("prefs.path", def.Prefs.Path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration against its field constraints.
func (c *AppConfig) Validate() error {
	return validator.New().Struct(c)
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("log", map[string]any{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
		"output": cfg.Log.Output,
	})
	v.Set("data", map[string]any{
		"source":      cfg.Data.Source,
		"sqlite_path": cfg.Data.SQLitePath,
	})
	v.Set("prefs", map[string]any{
		"path": cfg.Prefs.Path,
	})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
