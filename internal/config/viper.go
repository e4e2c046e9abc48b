// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// WorkbookConfig controls the header vocabulary and the export layout.
type WorkbookConfig struct {
	Locale         string `mapstructure:"locale" yaml:"locale"`
	VocabularyFile string `mapstructure:"vocabulary_file" yaml:"vocabulary_file"`
}

// CSVConfig controls the flat CSV export.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Address     string `mapstructure:"address" yaml:"address"`
	UserHeader  string `mapstructure:"user_header" yaml:"user_header"`
	BodyLimitMB int    `mapstructure:"body_limit_mb" yaml:"body_limit_mb"`
}

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Workbook WorkbookConfig `mapstructure:"workbook" yaml:"workbook"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

// EnvPrefix prefixes every environment variable read by the configuration,
// e.g. FINANCEIRO_STORE_DRIVER for store.driver.
const EnvPrefix = "FINANCEIRO"

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml from $HOME/.financeiro, .financeiro or the
// working directory, then environment variables.
func InitializeConfig() (*Config, error) {
	return load("")
}

// LoadFile is InitializeConfig with an explicit config file.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.financeiro")
		v.AddConfigPath(".financeiro")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "financeiro.db")

	v.SetDefault("workbook.locale", "pt")
	v.SetDefault("workbook.vocabulary_file", "")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.user_header", "X-User-ID")
	v.SetDefault("server.body_limit_mb", 10)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if config.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s driver", DriverSQLite)
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be '%s' or '%s')", config.Store.Driver, DriverMemory, DriverSQLite)
	}

	if config.Workbook.Locale == "" {
		return fmt.Errorf("workbook.locale cannot be empty")
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Server.UserHeader == "" {
		return fmt.Errorf("server.user_header cannot be empty")
	}
	if config.Server.BodyLimitMB < 1 || config.Server.BodyLimitMB > 512 {
		return fmt.Errorf("server.body_limit_mb must be between 1 and 512, got: %d", config.Server.BodyLimitMB)
	}

	return nil
}

// CSVDelimiter returns the configured CSV delimiter as a rune.
func (c *Config) CSVDelimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// NewLogger builds the application logger from the log section.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
