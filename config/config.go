package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Store     StoreConfig
	Recommend RecommendConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds configuration for the chat-completions provider
type LLMConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// StoreConfig holds catalog store configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RecommendConfig holds recommendation engine configuration
type RecommendConfig struct {
	TopN               int  `mapstructure:"top_n"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mitra/")

	// Environment variable settings
	v.SetEnvPrefix("MITRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// LLM defaults (Groq OpenAI-compatible endpoint)
	v.SetDefault("llm.base_url", "https://api.groq.com/openai")
	v.SetDefault("llm.model", "llama3-70b-8192")
	v.SetDefault("llm.timeout", "15s")
	v.SetDefault("llm.requests_per_minute", 30)

	// Store defaults
	v.SetDefault("store.path", "recommendation_db.sqlite")

	// Recommend defaults
	v.SetDefault("recommend.top_n", 10)
	v.SetDefault("recommend.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Path == "" {
		return fmt.Errorf("store path is required (set MITRA_STORE_PATH)")
	}

	if config.Recommend.TopN < 1 {
		return fmt.Errorf("recommend top_n must be at least 1, got: %d", config.Recommend.TopN)
	}

	if config.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM timeout must be positive, got: %s", config.LLM.Timeout)
	}

	if config.LLM.RequestsPerMinute < 1 {
		return fmt.Errorf("LLM requests_per_minute must be at least 1, got: %d", config.LLM.RequestsPerMinute)
	}

	return nil
}
