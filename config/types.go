package config

// Config represents the complete configuration structure
type Config struct {
	Forecast ForecastConfig `mapstructure:"forecast"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ForecastConfig holds Forecast API credentials and endpoint
type ForecastConfig struct {
	AccessToken string `mapstructure:"access_token"`
	AccountID   int64  `mapstructure:"account_id"`
	BaseURL     string `mapstructure:"base_url"`
	Timeout     string `mapstructure:"timeout"`
	UserAgent   string `mapstructure:"user_agent"`
}

// FilterConfig contains saved filter expressions
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default"`
	Presets           map[string]PresetFilter `mapstructure:"presets"`
	CacheSize         int                     `mapstructure:"cache_size"`
}

// PresetFilter is a named expression usable with --preset
type PresetFilter struct {
	Description string `mapstructure:"description"`
	Expression  string `mapstructure:"expression"`
}

// OutputConfig controls how results are rendered
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	Color  bool          `mapstructure:"color"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotated file logging in addition to stderr
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}
