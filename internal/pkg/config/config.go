// Package config provides configuration management for autocommit.
package config

// Config represents the complete autocommit configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Git      GitConfig      `mapstructure:"git"`
	UI       UIConfig       `mapstructure:"ui"`
	Security SecurityConfig `mapstructure:"security"`
}

// ProviderConfig contains completion API settings.
type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Endpoint    string  `mapstructure:"endpoint"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// GitConfig contains Git-related settings.
type GitConfig struct {
	DiffSizeThreshold int `mapstructure:"diff_size_threshold"`
	UnifiedContext    int `mapstructure:"unified_context"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Editor       string `mapstructure:"editor"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// SecurityConfig contains security-related settings.
type SecurityConfig struct {
	// WarningAcknowledged indicates if the user has acknowledged the
	// first-use privacy warning about sending diffs to a remote API.
	WarningAcknowledged bool `mapstructure:"warning_acknowledged"`
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Save(config *Config) error
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
