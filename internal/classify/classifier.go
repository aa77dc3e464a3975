// Package classify assigns categories to extracted document text.
package classify

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/hyperjump/bunrui/internal/config"
	"github.com/hyperjump/bunrui/internal/models"
)

// Request carries the material available for one classification. Text is
// the extracted document body. Name is an optional filename hint; its
// tokens count toward category matches, but a document with no text words
// always classifies "general" no matter what the name suggests.
type Request struct {
	Text string
	Name string
}

// Result is a category decision. Words is the whitespace word count of the
// request text; Hits is how many tokens matched the winning category.
type Result struct {
	Category   models.Category
	Confidence float64
	Hits       int
	Words      int
}

// Classifier decides a category for a document.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, req Request) (Result, error)
}

// New selects a classifier from configuration. The remote provider needs a
// credential; when it is missing the keyword classifier is returned instead
// so processing works offline.
func New(cfg config.ClassifierConfig, logger *zap.Logger) Classifier {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.APIKey == "" {
			if logger != nil {
				logger.Warn("remote classifier selected but no API key configured, using keyword classifier")
			}
			return NewKeywordClassifier(nil)
		}
		return NewRemoteClassifier(cfg, logger)
	case "", "keyword":
		return NewKeywordClassifier(nil)
	default:
		if logger != nil {
			logger.Warn("unknown classifier provider, using keyword classifier",
				zap.String("provider", cfg.Provider))
		}
		return NewKeywordClassifier(nil)
	}
}
