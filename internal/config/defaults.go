package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	// Storage.DatabasePath has no default: empty means history is disabled.
	if cfg.Processing.BatchSize == 0 {
		cfg.Processing.BatchSize = 100
	}
	if cfg.Processing.MaxWorkers == 0 {
		cfg.Processing.MaxWorkers = 1
	}
	if cfg.Processing.ConfidenceThreshold == 0 {
		cfg.Processing.ConfidenceThreshold = 0.1
	}
	if cfg.Summary.Sentences == 0 {
		cfg.Summary.Sentences = 3
	}
	if cfg.Summary.MaxChars == 0 {
		cfg.Summary.MaxChars = 240
	}
	if cfg.Summary.PreviewChars == 0 {
		cfg.Summary.PreviewChars = 160
	}
	// The preview is the shorter excerpt; keep it under the summary cap.
	if cfg.Summary.PreviewChars >= cfg.Summary.MaxChars {
		cfg.Summary.PreviewChars = cfg.Summary.MaxChars - 1
	}
	if cfg.Classifier.Provider == "" {
		cfg.Classifier.Provider = "keyword"
	}
	if cfg.Classifier.BaseURL == "" {
		cfg.Classifier.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Classifier.Model == "" {
		cfg.Classifier.Model = "gpt-4o-mini"
	}
	if cfg.Classifier.TimeoutSeconds == 0 {
		cfg.Classifier.TimeoutSeconds = 30
	}
	if cfg.OCR.Languages == nil {
		cfg.OCR.Languages = []string{"eng"}
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 3
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 14
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
