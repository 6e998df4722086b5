// Package config provides configuration loading for the CLI and server. A
// JSON config file supplies defaults; environment variables overlay it; CLI
// flags win over both.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds every tunable of the agent. All fields are optional.
type Config struct {
	// Extraction
	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Model  string `json:"model,omitempty"`   // Extraction model name

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL export archive
	Capacity    int    `json:"capacity,omitempty"`     // Resume store capacity

	// Rendering
	EditorURL string `json:"editor_url,omitempty"` // CV editor override
	Template  string `json:"template,omitempty"`   // Default render template

	// Server
	Port int `json:"port,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Load reads a JSON config file. The path is resolved against the working
// directory when relative.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays environment variables onto unset fields.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Model == "" {
		c.Model = os.Getenv("EXTRACTION_MODEL")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.EditorURL == "" {
		c.EditorURL = os.Getenv("EUROPASS_EDITOR_URL")
	}
	if c.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.Port = port
		}
	}
}

// Validate checks numeric ranges.
func (c *Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("config error: 'capacity' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range")
	}
	return nil
}

// Resolve loads the config file when a path is given, otherwise starts from
// an empty config, then overlays the environment and validates.
func Resolve(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
