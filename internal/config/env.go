package config

import (
	"os"
	"strconv"
)

// ApplyEnv overrides cfg fields from environment variables. Environment
// values win over both defaults and the config file.
func ApplyEnv(cfg *Config) {
	cfg.Processing.BatchSize = getEnvAsInt("BATCH_SIZE", cfg.Processing.BatchSize)
	cfg.Processing.MaxWorkers = getEnvAsInt("MAX_WORKERS", cfg.Processing.MaxWorkers)
	cfg.Processing.ConfidenceThreshold = getEnvAsFloat("CONFIDENCE_THRESHOLD", cfg.Processing.ConfidenceThreshold)
	// CLASSIFIER_API_KEY wins; OPENAI_API_KEY covers the common case of an
	// already-exported key for OpenAI-compatible endpoints.
	cfg.Classifier.APIKey = getEnv("CLASSIFIER_API_KEY", getEnv("OPENAI_API_KEY", cfg.Classifier.APIKey))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
