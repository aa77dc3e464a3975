// Package cli provides output rendering for bunrui commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/bunrui/internal/models"
)

// OutputFormat is the format for outcome output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per outcome.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format flag value. Empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact:
		return OutputCompact, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact, or json)", s)
	}
}

// WriteOutcome writes a single outcome to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteOutcome(w io.Writer, o *models.Outcome, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	case OutputCompact:
		writeOutcomeLine(w, o)
		return nil
	default:
		writeOutcomeText(w, o)
		return nil
	}
}

// WriteSummary writes a batch summary to w in the given format.
func WriteSummary(w io.Writer, summary *models.BatchSummary, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case OutputCompact:
		for _, o := range summary.Outcomes {
			writeOutcomeLine(w, o)
		}
		writeSummaryLine(w, summary)
		return nil
	default:
		for _, o := range summary.Outcomes {
			writeOutcomeText(w, o)
		}
		writeSummaryLine(w, summary)
		return nil
	}
}

func writeOutcomeText(w io.Writer, o *models.Outcome) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%s [%s]\n", o.Name, o.Status)
	fmt.Fprintf(w, "Path: %s\n", o.Path)
	if o.Classification != nil {
		flag := ""
		if o.Classification.LowConfidence {
			flag = " LOW"
		}
		fmt.Fprintf(w, "Category: %s (confidence %.2f, %d keyword hits%s)\n",
			o.Classification.Category, o.Classification.Confidence, o.Classification.Hits, flag)
	}
	if o.Metadata != nil {
		fmt.Fprintf(w, "Words: %d | Chars: %d | Size: %d bytes\n",
			o.Metadata.WordCount, o.Metadata.CharCount, o.SizeBytes)
		if o.Metadata.Summary != "" {
			fmt.Fprintf(w, "Summary: %s\n", o.Metadata.Summary)
		}
	}
	if o.Error != "" {
		fmt.Fprintf(w, "Error: %s: %s\n", o.ErrorKind, o.Error)
	}
	fmt.Fprintf(w, "Took: %dms\n\n", o.DurationMS)
}

func writeOutcomeLine(w io.Writer, o *models.Outcome) {
	switch {
	case o.Classification != nil:
		fmt.Fprintf(w, "[%s] %s -> %s (%.2f)\n",
			o.Status, o.Name, o.Classification.Category, o.Classification.Confidence)
	case o.Error != "":
		fmt.Fprintf(w, "[%s] %s: %s\n", o.Status, o.Name, Truncate(o.Error, 120))
	default:
		fmt.Fprintf(w, "[%s] %s\n", o.Status, o.Name)
	}
}

func writeSummaryLine(w io.Writer, summary *models.BatchSummary) {
	fmt.Fprintf(w, "\nProcessed %d files in %dms: %d succeeded, %d failed, %d skipped\n",
		summary.Total, summary.DurationMS, summary.Succeeded, summary.Failed, summary.Skipped)
}

// PrintOutcome prints an outcome to stdout in text format.
func PrintOutcome(o *models.Outcome) {
	_ = WriteOutcome(os.Stdout, o, OutputText)
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
