package config

// Config represents the complete configuration structure
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Radarr   RadarrConfig   `mapstructure:"radarr"`
	Sonarr   SonarrConfig   `mapstructure:"sonarr"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Lists    ListsConfig    `mapstructure:"lists"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// EngineConfig tunes the evaluation pipeline
type EngineConfig struct {
	Workers          int `mapstructure:"workers"`
	BatchSize        int `mapstructure:"batch_size"`
	RegexTimeoutMS   int `mapstructure:"regex_timeout_ms"`
	ProgramCacheSize int `mapstructure:"program_cache_size"`
}

// RadarrConfig holds Radarr API connection details
type RadarrConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// SonarrConfig holds Sonarr API connection details
type SonarrConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// DefaultsConfig carries per-run defaults applied when a definition leaves
// them unset
type DefaultsConfig struct {
	UserID        string   `mapstructure:"user_id"`
	MediaTypes    []string `mapstructure:"media_types"`
	IncludeExtras bool     `mapstructure:"include_extras"`
}

// ListsConfig maps preset names to definition file paths
type ListsConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
