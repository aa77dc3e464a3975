// Package processor orchestrates extraction, classification, and metadata
// for documents, one file at a time or in batches.
package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/bunrui/internal/classify"
	"github.com/hyperjump/bunrui/internal/extract"
	"github.com/hyperjump/bunrui/internal/fileid"
	"github.com/hyperjump/bunrui/internal/metadata"
	"github.com/hyperjump/bunrui/internal/models"
)

// Processor runs the per-document pipeline: dispatch, extract, classify,
// summarize. All fields are read-only after construction, so a single
// Processor is safe for concurrent use.
type Processor struct {
	extractor  *extract.Extractor
	classifier classify.Classifier
	builder    *metadata.Builder
	threshold  float64
	workers    int
	logger     *zap.Logger // optional; when set, logs debug events
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithWorkers bounds batch parallelism. Values below 2 keep batches
// sequential.
func WithWorkers(n int) Option {
	return func(p *Processor) { p.workers = n }
}

// WithConfidenceThreshold sets the level under which a successful outcome
// is flagged low-confidence. Reporting only; the category stands.
func WithConfidenceThreshold(t float64) Option {
	return func(p *Processor) { p.threshold = t }
}

// New creates a Processor over the given pipeline stages.
func New(extractor *extract.Extractor, classifier classify.Classifier, builder *metadata.Builder, opts ...Option) *Processor {
	p := &Processor{
		extractor:  extractor,
		classifier: classifier,
		builder:    builder,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile runs the pipeline for one file. Errors never escape as Go
// errors: the returned Outcome carries status, classification or error
// record, file identity, and timing. Unrecognized extensions come back
// "skipped", extraction and classification errors "failed".
func (p *Processor) ProcessFile(ctx context.Context, path string) *models.Outcome {
	start := time.Now()
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = filepath.Clean(path)
	}
	o := &models.Outcome{
		ID:          uuid.New().String(),
		FileID:      fileid.FileID(absPath),
		Path:        absPath,
		Name:        filepath.Base(absPath),
		Extension:   strings.ToLower(filepath.Ext(absPath)),
		ProcessedAt: start,
	}
	defer func() { o.DurationMS = time.Since(start).Milliseconds() }()

	// Extension check runs before any file I/O so unsupported paths are
	// skipped even when unreadable.
	if !p.extractor.Supports(absPath) {
		p.fail(o, models.NewUnsupportedFormatError(o.Extension))
		return o
	}
	info, err := os.Stat(absPath)
	if err != nil {
		p.fail(o, models.NewExtractionError("stat file", err))
		return o
	}
	if !info.Mode().IsRegular() {
		p.fail(o, models.NewExtractionError(fmt.Sprintf("not a regular file: %s", absPath), nil))
		return o
	}
	o.SizeBytes = info.Size()

	text, err := p.extractor.Extract(ctx, absPath)
	if err != nil {
		p.fail(o, err)
		return o
	}
	p.complete(ctx, o, text, start)
	return o
}

// ProcessUpload runs the pipeline for in-memory content, typically an HTTP
// upload. The extension is taken from name; identity is derived from the
// content itself since there is no filesystem path.
func (p *Processor) ProcessUpload(ctx context.Context, name string, content []byte) *models.Outcome {
	start := time.Now()
	base := filepath.Base(name)
	o := &models.Outcome{
		ID:          uuid.New().String(),
		FileID:      fileid.ContentID(content),
		Path:        base,
		Name:        base,
		Extension:   strings.ToLower(filepath.Ext(base)),
		SizeBytes:   int64(len(content)),
		ProcessedAt: start,
	}
	defer func() { o.DurationMS = time.Since(start).Milliseconds() }()

	text, err := p.extractor.ExtractBytes(ctx, content, o.Extension)
	if err != nil {
		p.fail(o, err)
		return o
	}
	p.complete(ctx, o, text, start)
	return o
}

// complete classifies the extracted text and fills the outcome's success
// fields. A classification error fails the outcome instead.
func (p *Processor) complete(ctx context.Context, o *models.Outcome, text string, start time.Time) {
	result, err := p.classifier.Classify(ctx, classify.Request{Text: text, Name: o.Name})
	if err != nil {
		p.fail(o, err)
		return
	}
	meta := p.builder.Build(text)

	o.Status = models.StatusSuccess
	o.Classification = &models.Classification{
		Category:      result.Category,
		Confidence:    result.Confidence,
		Hits:          result.Hits,
		LowConfidence: result.Confidence < p.threshold,
	}
	o.Metadata = &meta
	if p.logger != nil {
		p.logger.Debug("processed document",
			zap.String("path", o.Path),
			zap.String("category", result.Category.String()),
			zap.Float64("confidence", result.Confidence),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// SupportedExtensions reports the extractor's dispatch table, sorted.
func (p *Processor) SupportedExtensions() []string {
	return p.extractor.SupportedExtensions()
}

// ClassifierName reports the active classification strategy.
func (p *Processor) ClassifierName() string {
	return p.classifier.Name()
}

// fail records the error's kind and message on the outcome. Unsupported
// format counts as skipped, everything else as failed.
func (p *Processor) fail(o *models.Outcome, err error) {
	kind := models.KindOf(err)
	if kind == models.ErrorKindUnsupportedFormat {
		o.Status = models.StatusSkipped
	} else {
		o.Status = models.StatusFailed
	}
	o.ErrorKind = kind
	o.Error = err.Error()
	if p.logger != nil {
		p.logger.Debug("document not processed",
			zap.String("path", o.Path),
			zap.String("status", string(o.Status)),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}
