// Package config loads the application-level YAML configuration for the
// laqrag CLI. Library packages take their settings through constructors and
// functional options; this file format only feeds the command layer.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig locates the on-disk vector database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AIConfig holds the model endpoints and names. Hosts point at an
// OpenAI-compatible API, typically a local Ollama server.
type AIConfig struct {
	EmbeddingHost    string `yaml:"embedding_host"`
	GeneratorHost    string `yaml:"generator_host"`
	EmbeddingModel   string `yaml:"embedding_model"`
	GeneratorModel   string `yaml:"generator_model"`
	MaxDocumentChars int    `yaml:"max_document_chars"`
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	Workers int `yaml:"workers"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`
	Ingest   IngestConfig   `yaml:"ingest"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig()
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./laqrag.yaml first, then ~/.config/laqrag/config.yaml.
// If neither exists, defaults are returned without writing anything.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "laqrag.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err == nil {
		if _, statErr := os.Stat(userPath); statErr == nil {
			cfg, err := Load(userPath)
			return cfg, userPath, err
		}
	}
	cfg, err := defaultConfig()
	return cfg, "", err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "laqrag", "config.yaml"), nil
}

func defaultConfig() (*AppConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cfg := &AppConfig{
		Database: DatabaseConfig{Path: filepath.Join(home, ".laqrag", "db")},
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = "http://localhost:11434/v1"
	}
	if cfg.AI.GeneratorHost == "" {
		cfg.AI.GeneratorHost = cfg.AI.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "nomic-embed-text"
	}
	if cfg.AI.GeneratorModel == "" {
		cfg.AI.GeneratorModel = "mistral"
	}
	if cfg.AI.MaxDocumentChars == 0 {
		cfg.AI.MaxDocumentChars = 10000
	}
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = 4
	}
}
