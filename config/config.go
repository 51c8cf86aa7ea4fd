// Package config holds the application configuration, persisted as JSON in
// the user config directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config structure
type Config struct {
	LLMProvider  string `json:"llmProvider"`
	APIKey       string `json:"apiKey"`
	BaseURL      string `json:"baseUrl"`
	ModelName    string `json:"modelName"`
	MaxTokens    int    `json:"maxTokens"`
	OutputDir    string `json:"outputDir"`    // generated decks and PDFs
	TemplateDir  string `json:"templateDir"`  // stored donor templates
	DatabasePath string `json:"databasePath"` // generation history sqlite file
	LogDir       string `json:"logDir"`
	DetailedLog  bool   `json:"detailedLog"`
	Language     string `json:"language"`
}

// Default returns the configuration used when no file exists yet. All
// paths live under baseDir.
func Default(baseDir string) Config {
	return Config{
		LLMProvider:  "OpenAI",
		ModelName:    "gpt-4o-mini",
		MaxTokens:    4096,
		OutputDir:    filepath.Join(baseDir, "output"),
		TemplateDir:  filepath.Join(baseDir, "templates"),
		DatabasePath: filepath.Join(baseDir, "history.db"),
		LogDir:       filepath.Join(baseDir, "logs"),
		Language:     "en",
	}
}

// Load reads the configuration file, falling back to defaults when the
// file does not exist. A present but unparsable file is an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(filepath.Dir(path)), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %v", err)
	}
	cfg := Default(filepath.Dir(path))
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %v", err)
	}
	return cfg, nil
}

// Save writes the configuration file, creating its directory as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDirs creates every directory the configuration points at.
func EnsureDirs(cfg Config) error {
	for _, dir := range []string{cfg.OutputDir, cfg.TemplateDir, cfg.LogDir, filepath.Dir(cfg.DatabasePath)} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}
