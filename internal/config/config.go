// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is the CLI configuration. A JSON file holds durable values;
// environment variables override it per invocation, and a .env in the
// working directory feeds those variables when present.
type Config struct {
	LogLevel string `json:"log_level"`
	OpenAI   struct {
		APIKey      string `json:"api_key"`
		BaseURL     string `json:"base_url"`
		AssistantID string `json:"assistant_id"`
	} `json:"openai"`
}

// DefaultPath is the standard config file location.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".gpt-files", "config.json")
}

// Load reads the config file, writing defaults on first run, then
// applies environment overrides (highest precedence): OPENAI_API_KEY,
// OPENAI_BASE_URL, OPENAI_ASSISTANT_ID, GPT_FILES_LOG_LEVEL.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LogLevel = "info"
	cfg.OpenAI.BaseURL = "https://api.openai.com/v1"

	// Optional .env in the working directory
	_ = godotenv.Load()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_ASSISTANT_ID"); v != "" {
		cfg.OpenAI.AssistantID = v
	}
	if v := os.Getenv("GPT_FILES_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// Save writes the config atomically (temp file + rename).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
