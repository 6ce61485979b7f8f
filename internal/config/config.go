// Package config holds the formrestore command configuration. Values come
// from a config file, FORMRESTORE_* environment variables and command flags,
// merged by viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix namespaces environment overrides, e.g. FORMRESTORE_LOGGER_LEVEL.
const EnvPrefix = "FORMRESTORE"

// Config is the full command configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Fields  FieldsConfig  `mapstructure:"fields" yaml:"fields"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

// LoggerConfig selects the log level and encoding.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// FieldsConfig tunes the fallback rules applied to unregistered keys.
type FieldsConfig struct {
	URLKey       string `mapstructure:"url_key" yaml:"url_key"`
	URLElementID string `mapstructure:"url_element_id" yaml:"url_element_id"`
	OtherSuffix  string `mapstructure:"other_suffix" yaml:"other_suffix"`
}

// BrowserConfig drives the headless Chrome session of the browser command.
type BrowserConfig struct {
	Headless bool          `mapstructure:"headless" yaml:"headless"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "formrestore")

	v.SetDefault("fields.url_key", "url_value")
	v.SetDefault("fields.url_element_id", "url-value")
	v.SetDefault("fields.other_suffix", "_other")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", 30*time.Second)
}

// Init points v at the config file, or at formrestore.{yaml,json,toml} in the
// working directory when file is empty, and enables environment overrides.
// A missing default config file is not an error.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("formrestore")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("config: logger.level: %w", err)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logger.format %q must be console or json", c.Logger.Format)
	}
	if strings.TrimSpace(c.Fields.URLKey) == "" {
		return errors.New("config: fields.url_key is required")
	}
	if strings.TrimSpace(c.Fields.URLElementID) == "" {
		return errors.New("config: fields.url_element_id is required")
	}
	if strings.TrimSpace(c.Fields.OtherSuffix) == "" {
		return errors.New("config: fields.other_suffix is required")
	}
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("config: browser.timeout must be positive, got %s", c.Browser.Timeout)
	}
	return nil
}
