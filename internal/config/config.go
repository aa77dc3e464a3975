// Package config provides configuration loading and structs for the bunrui pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Processing ProcessingConfig `yaml:"processing"`
	Summary    SummaryConfig    `yaml:"summary"`
	Classifier ClassifierConfig `yaml:"classifier"`
	OCR        OCRConfig        `yaml:"ocr"`
	Watch      WatchConfig      `yaml:"watch"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the processing-history database path.
// An empty path disables history persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ProcessingConfig holds batch and classification-threshold settings.
type ProcessingConfig struct {
	// BatchSize is the maximum documents per batch run; longer inputs are
	// paged into successive runs by the caller.
	BatchSize int `yaml:"batch_size"`
	// MaxWorkers bounds batch parallelism. 1 or less means sequential.
	MaxWorkers int `yaml:"max_workers"`
	// ConfidenceThreshold flags low-confidence classifications in output.
	// It never changes the selected category.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	// Recursive controls directory scanning in batch mode.
	Recursive bool `yaml:"recursive"`
}

// SummaryConfig holds metadata-builder settings.
type SummaryConfig struct {
	Sentences    int `yaml:"sentences"`
	MaxChars     int `yaml:"max_chars"`
	PreviewChars int `yaml:"preview_chars"`
}

// ClassifierConfig selects and configures the classification strategy.
type ClassifierConfig struct {
	// Provider is "keyword" (default, local) or "openai" (remote).
	Provider string `yaml:"provider"`
	// APIKey authorizes the remote provider. Falls back to the
	// CLASSIFIER_API_KEY and OPENAI_API_KEY environment variables.
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// OCRConfig holds image-adapter settings.
type OCRConfig struct {
	Languages []string `yaml:"languages"`
	Enhance   *bool    `yaml:"enhance"`
}

// EnhanceOrDefault returns whether to preprocess images before OCR;
// defaults to true when unset.
func (o *OCRConfig) EnhanceOrDefault() bool {
	if o.Enhance != nil {
		return *o.Enhance
	}
	return true
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// LogConfig holds optional rotating-file log settings.
// An empty File logs to the console only.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load reads and parses the config file at path, applies defaults, applies
// environment overrides, and expands paths. Returns an error if the file
// cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)

	configDir := filepath.Dir(path)
	if cfg.Storage.DatabasePath != "" {
		cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)
	return &cfg
}

// Save writes the config to path. Used for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
