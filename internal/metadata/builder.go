// Package metadata derives counts and excerpts from extracted text.
package metadata

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/pkg/utils"
)

// Defaults for summary and preview shaping.
const (
	DefaultSummarySentences = 3
	DefaultSummaryMaxChars  = 240
	DefaultPreviewChars     = 160
)

// Options shape the generated summary and preview.
type Options struct {
	// SummarySentences is how many leading sentences the summary keeps.
	SummarySentences int
	// SummaryMaxChars caps the summary length in runes.
	SummaryMaxChars int
	// PreviewChars is the preview length in runes; always kept strictly
	// below SummaryMaxChars.
	PreviewChars int
}

// Builder computes document metadata. It is pure and stateless, so a single
// Builder is safe for concurrent use.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder. Non-positive options fall back to the
// defaults, and the preview length is clamped below the summary cap.
func NewBuilder(opts Options) *Builder {
	if opts.SummarySentences <= 0 {
		opts.SummarySentences = DefaultSummarySentences
	}
	if opts.SummaryMaxChars <= 0 {
		opts.SummaryMaxChars = DefaultSummaryMaxChars
	}
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = DefaultPreviewChars
	}
	if opts.PreviewChars >= opts.SummaryMaxChars {
		opts.PreviewChars = opts.SummaryMaxChars - 1
	}
	return &Builder{opts: opts}
}

// Build computes word count, character count, summary, and preview.
// Empty text yields zero counts and empty strings; Build never fails.
func (b *Builder) Build(text string) models.Metadata {
	return models.Metadata{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
		Summary:   b.summarize(text),
		Preview:   utils.TruncateRunes(text, b.opts.PreviewChars),
	}
}

// summarize joins the first SummarySentences sentences and caps the result
// at SummaryMaxChars runes, marking truncation with an ellipsis.
func (b *Builder) summarize(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	n := b.opts.SummarySentences
	if len(sentences) < n {
		n = len(sentences)
	}
	return utils.TruncateRunes(strings.Join(sentences[:n], " "), b.opts.SummaryMaxChars)
}

// splitSentences splits on '.', '!' and '?', keeping the terminator with
// its sentence. Abbreviations are not special-cased; "Mr. Smith" counts as
// two sentences, which is acceptable for a leading-sentences excerpt.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
