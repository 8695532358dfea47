package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

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
			v.AddConfigPath(filepath.Join(home, ".listforge"))
		}

		// Check /etc
		v.AddConfigPath("/etc/listforge/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
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
	// Engine defaults
	v.SetDefault("engine.workers", 0) // 0 means one per CPU
	v.SetDefault("engine.batch_size", 500)
	v.SetDefault("engine.regex_timeout_ms", 100)
	v.SetDefault("engine.program_cache_size", 64)

	// Host defaults
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("sonarr.url", "http://localhost:8989")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative")
	}
	if cfg.Engine.BatchSize <= 0 {
		return fmt.Errorf("engine.batch_size must be positive")
	}
	if cfg.Engine.RegexTimeoutMS <= 0 {
		return fmt.Errorf("engine.regex_timeout_ms must be positive")
	}
	if cfg.Engine.ProgramCacheSize <= 0 {
		return fmt.Errorf("engine.program_cache_size must be positive")
	}

	if cfg.Radarr.Enabled {
		if cfg.Radarr.URL == "" {
			return fmt.Errorf("radarr.url is required when radarr is enabled")
		}
		if cfg.Radarr.APIKey == "" || cfg.Radarr.APIKey == "your-api-key-here" {
			return fmt.Errorf("radarr.api_key must be set to a valid API key")
		}
	}
	if cfg.Sonarr.Enabled {
		if cfg.Sonarr.URL == "" {
			return fmt.Errorf("sonarr.url is required when sonarr is enabled")
		}
		if cfg.Sonarr.APIKey == "" || cfg.Sonarr.APIKey == "your-api-key-here" {
			return fmt.Errorf("sonarr.api_key must be set to a valid API key")
		}
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
