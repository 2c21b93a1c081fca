package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the lead ranking service
type Config struct {
	LLM      LLMConfig      `json:"llm"`
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
}

// LLMConfig holds the per-provider API configuration. Every provider
// speaks the OpenAI chat completion protocol; a provider with no API key
// is simply unavailable.
type LLMConfig struct {
	OpenAI      ProviderConfig `json:"openai"`
	Groq        ProviderConfig `json:"groq"`
	OpenRouter  ProviderConfig `json:"openrouter"`
	Temperature float64        `json:"temperature"`
}

// ProviderConfig holds one OpenAI-compatible backend
type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"` // empty means the provider's public endpoint
	Model   string `json:"model"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	PostgresURL string `json:"postgres_url"`
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"` // Allowed CORS origins
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			OpenAI:      ProviderConfig{Model: "gpt-4o-mini"},
			Groq:        ProviderConfig{Model: "llama-3.3-70b-versatile"},
			OpenRouter:  ProviderConfig{Model: "openai/gpt-4o-mini"},
			Temperature: 0.2,
		},
		Database: DatabaseConfig{
			PostgresURL: "",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000"}, // Default development origin
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

// envFloat loads a float64 environment variable into the target pointer if set and valid
func envFloat(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

// envStringSlice loads a comma-separated environment variable into a string slice
func envStringSlice(key string, target *[]string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
		}
	}

	envString("LEADRANK_OPENAI_API_KEY", &cfg.LLM.OpenAI.APIKey)
	envString("LEADRANK_OPENAI_BASE_URL", &cfg.LLM.OpenAI.BaseURL)
	envString("LEADRANK_OPENAI_MODEL", &cfg.LLM.OpenAI.Model)
	envString("LEADRANK_GROQ_API_KEY", &cfg.LLM.Groq.APIKey)
	envString("LEADRANK_GROQ_BASE_URL", &cfg.LLM.Groq.BaseURL)
	envString("LEADRANK_GROQ_MODEL", &cfg.LLM.Groq.Model)
	envString("LEADRANK_OPENROUTER_API_KEY", &cfg.LLM.OpenRouter.APIKey)
	envString("LEADRANK_OPENROUTER_BASE_URL", &cfg.LLM.OpenRouter.BaseURL)
	envString("LEADRANK_OPENROUTER_MODEL", &cfg.LLM.OpenRouter.Model)
	envFloat("LEADRANK_LLM_TEMPERATURE", &cfg.LLM.Temperature)

	envString("LEADRANK_POSTGRES_URL", &cfg.Database.PostgresURL)

	envString("LEADRANK_SERVER_HOST", &cfg.Server.Host)
	envInt("LEADRANK_SERVER_PORT", &cfg.Server.Port)
	envStringSlice("LEADRANK_CORS_ORIGINS", &cfg.Server.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfiguredProviders lists the providers that have an API key set.
func (c *Config) ConfiguredProviders() []string {
	var providers []string
	if c.LLM.OpenAI.APIKey != "" {
		providers = append(providers, "openai")
	}
	if c.LLM.Groq.APIKey != "" {
		providers = append(providers, "groq")
	}
	if c.LLM.OpenRouter.APIKey != "" {
		providers = append(providers, "openrouter")
	}
	return providers
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, "LLM temperature must be between 0 and 2")
	}
	for name, p := range map[string]ProviderConfig{
		"openai":     c.LLM.OpenAI,
		"groq":       c.LLM.Groq,
		"openrouter": c.LLM.OpenRouter,
	} {
		if p.BaseURL != "" && !isValidURL(p.BaseURL) {
			errs = append(errs, fmt.Sprintf("%s base URL must be a valid URL", name))
		}
		if p.APIKey != "" && p.Model == "" {
			errs = append(errs, fmt.Sprintf("%s model is required when an API key is set", name))
		}
	}

	if c.Database.PostgresURL != "" && !isValidURL(c.Database.PostgresURL) {
		errs = append(errs, "PostgreSQL URL must be a valid URL")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("LEADRANK_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	return filepath.Join(homeDir, ".config", "leadrank", "config.json")
}
