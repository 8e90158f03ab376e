package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from file and environment.
//
// Resolution order, lowest to highest precedence: built-in defaults,
// config file, variables from a local .env file, KNUSPR_* environment
// variables. Credentials are usually supplied through the environment so
// the config file stays shareable.
func Load(configPath string) (*Config, error) {
	// A .env in the working directory feeds the environment before viper
	// reads it. Missing file is fine.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("KNUSPR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".knuspr"))
		}

		v.AddConfigPath("/etc/knuspr/")
	}

	// The config file is optional; everything can come from the environment.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		if configPath != "" {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Credentials default to empty so viper knows the keys and resolves
	// them from the environment.
	v.SetDefault("username", "")
	v.SetDefault("password", "")

	v.SetDefault("base_url", "https://www.knuspr.de")
	v.SetDefault("language", "de-DE,de;q=0.9,en;q=0.8")
	v.SetDefault("min_request_interval", 0.1)
	v.SetDefault("request_timeout", 10.0)
	v.SetDefault("debug", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Username == "" {
		return fmt.Errorf("username is required (set KNUSPR_USERNAME)")
	}
	if cfg.Password == "" {
		return fmt.Errorf("password is required (set KNUSPR_PASSWORD)")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be a valid absolute URL: %s", cfg.BaseURL)
	}

	if cfg.MinRequestInterval < 0 {
		return fmt.Errorf("min_request_interval must not be negative")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
