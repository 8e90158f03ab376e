package config

// Config represents the complete configuration structure
type Config struct {
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	BaseURL            string        `mapstructure:"base_url"`
	Language           string        `mapstructure:"language"`
	MinRequestInterval float64       `mapstructure:"min_request_interval"`
	RequestTimeout     float64       `mapstructure:"request_timeout"`
	Debug              bool          `mapstructure:"debug"`
	Filter             FilterConfig  `mapstructure:"filter"`
	Logging            LoggingConfig `mapstructure:"logging"`
}

// FilterConfig contains filter presets for the search command
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
