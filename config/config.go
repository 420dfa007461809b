package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// FORECAST_ACCESS_TOKEN or FORECAST_LOGGING_LEVEL.
const EnvPrefix = "FORECAST"

// Load loads the configuration from file and environment. A missing config
// file is not an error when no explicit path was given, so credentials may
// come from the environment alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".forecastctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/forecastctl/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Forecast defaults
	v.SetDefault("forecast.base_url", "https://api.forecastapp.com")
	v.SetDefault("forecast.timeout", "30s")
	v.SetDefault("forecast.user_agent", "forecastctl")

	// Filter defaults
	v.SetDefault("filter.cache_size", 128)

	// Output defaults
	v.SetDefault("output.format", "table")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file.max_size_mb", 10)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age_days", 28)
}

// bindEnv maps FORECAST_* variables onto config keys. Keys without a default
// must be bound explicitly for Unmarshal to see them.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("forecast.access_token", EnvPrefix+"_ACCESS_TOKEN")
	_ = v.BindEnv("forecast.account_id", EnvPrefix+"_ACCOUNT_ID")
	_ = v.BindEnv("forecast.base_url", EnvPrefix+"_BASE_URL")
	_ = v.BindEnv("logging.file.path", EnvPrefix+"_LOG_FILE")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Forecast.AccessToken == "" || cfg.Forecast.AccessToken == "your-access-token-here" {
		return fmt.Errorf("forecast.access_token must be set (or %s_ACCESS_TOKEN)", EnvPrefix)
	}

	if cfg.Forecast.AccountID <= 0 {
		return fmt.Errorf("forecast.account_id must be a positive integer (or %s_ACCOUNT_ID)", EnvPrefix)
	}

	u, err := url.Parse(cfg.Forecast.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid forecast.base_url: %q", cfg.Forecast.BaseURL)
	}

	if _, err := cfg.Forecast.TimeoutDuration(); err != nil {
		return err
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	if cfg.Filter.CacheSize <= 0 {
		return fmt.Errorf("filter.cache_size must be positive, got %d", cfg.Filter.CacheSize)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be table, json or yaml)", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// TimeoutDuration parses the configured request timeout.
func (c ForecastConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid forecast.timeout: %q", c.Timeout)
	}
	return d, nil
}
