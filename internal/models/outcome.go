package models

import "time"

// Status is the terminal state of one document's processing.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Classification is the category decision for one document.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Hits       int      `json:"keyword_hits"`
	// LowConfidence flags a confidence below the configured threshold.
	// Reporting only; the category stands regardless.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// Metadata holds statistics derived from the extracted text.
type Metadata struct {
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
	Summary   string `json:"summary"`
	Preview   string `json:"preview"`
}

// Outcome is the per-document result bundle. A success carries
// Classification and Metadata; a failure or skip carries ErrorKind and
// Error instead. Never both, never neither.
type Outcome struct {
	ID             string          `json:"id"`
	FileID         string          `json:"file_id"`
	Path           string          `json:"path"`
	Name           string          `json:"name"`
	Extension      string          `json:"extension"`
	SizeBytes      int64           `json:"size_bytes"`
	Status         Status          `json:"status"`
	Classification *Classification `json:"classification,omitempty"`
	Metadata       *Metadata       `json:"metadata,omitempty"`
	ErrorKind      ErrorKind       `json:"error_kind,omitempty"`
	Error          string          `json:"error,omitempty"`
	ProcessedAt    time.Time       `json:"processed_at"`
	DurationMS     int64           `json:"duration_ms"`
}

// Succeeded reports whether the document was fully processed.
func (o *Outcome) Succeeded() bool { return o.Status == StatusSuccess }

// BatchSummary aggregates one ordered run over a list of paths. Outcomes
// preserve input order regardless of how the batch was executed.
type BatchSummary struct {
	ID         string     `json:"id"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Skipped    int        `json:"skipped"`
	Outcomes   []*Outcome `json:"outcomes"`
	StartedAt  time.Time  `json:"started_at"`
	DurationMS int64      `json:"duration_ms"`
}

// Add appends an outcome and updates the counters. Nil outcomes
// (abandoned on cancellation) are ignored.
func (b *BatchSummary) Add(o *Outcome) {
	if o == nil {
		return
	}
	b.Outcomes = append(b.Outcomes, o)
	b.Total++
	switch o.Status {
	case StatusSuccess:
		b.Succeeded++
	case StatusSkipped:
		b.Skipped++
	default:
		b.Failed++
	}
}
