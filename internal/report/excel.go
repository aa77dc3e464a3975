// Package report renders batch results as XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/bunrui/internal/models"
)

const (
	outcomesSheet = "Outcomes"
	summarySheet  = "Summary"
)

// ExcelWriter renders a BatchSummary into a two-sheet workbook: one row per
// outcome plus an aggregate sheet with counts per status and category.
type ExcelWriter struct {
	logger *zap.Logger
}

func NewExcelWriter(logger *zap.Logger) *ExcelWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExcelWriter{logger: logger}
}

var outcomeHeaders = []string{
	"Name", "Path", "Status", "Category", "Confidence", "Keyword Hits",
	"Word Count", "Char Count", "Size (bytes)", "Error Kind", "Error",
	"Processed At", "Duration (ms)",
}

// Build renders the summary into an in-memory workbook. The caller owns the
// returned file and must Close it.
func (w *ExcelWriter) Build(summary *models.BatchSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", outcomesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range outcomeHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetCellValue(outcomesSheet, cell, h); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	for i, o := range summary.Outcomes {
		if err := writeOutcomeRow(f, i+2, o); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("outcome row %d: %w", i, err)
		}
	}

	_ = f.SetColWidth(outcomesSheet, "A", "A", 24) // name
	_ = f.SetColWidth(outcomesSheet, "B", "B", 48) // path
	_ = f.SetColWidth(outcomesSheet, "D", "D", 12) // category
	_ = f.SetColWidth(outcomesSheet, "K", "K", 48) // error
	_ = f.SetColWidth(outcomesSheet, "L", "L", 20) // timestamp

	if err := writeSummarySheet(f, summary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}

	w.logger.Debug("workbook built",
		zap.String("batch_id", summary.ID),
		zap.Int("rows", len(summary.Outcomes)))
	return f, nil
}

func writeOutcomeRow(f *excelize.File, row int, o *models.Outcome) error {
	set := func(col int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(outcomesSheet, cell, v)
	}

	cells := []any{o.Name, o.Path, string(o.Status)}
	if o.Classification != nil {
		cells = append(cells, string(o.Classification.Category), o.Classification.Confidence, o.Classification.Hits)
	} else {
		cells = append(cells, "", "", "")
	}
	if o.Metadata != nil {
		cells = append(cells, o.Metadata.WordCount, o.Metadata.CharCount)
	} else {
		cells = append(cells, "", "")
	}
	cells = append(cells, o.SizeBytes, string(o.ErrorKind), o.Error,
		o.ProcessedAt.Format("2006-01-02 15:04:05"), o.DurationMS)

	for i, v := range cells {
		if err := set(i+1, v); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary *models.BatchSummary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	byCategory := make(map[models.Category]int)
	for _, o := range summary.Outcomes {
		if o.Classification != nil {
			byCategory[o.Classification.Category]++
		}
	}

	rows := [][2]any{
		{"Batch ID", summary.ID},
		{"Started At", summary.StartedAt.Format("2006-01-02 15:04:05")},
		{"Duration (ms)", summary.DurationMS},
		{"Total", summary.Total},
		{"Succeeded", summary.Succeeded},
		{"Failed", summary.Failed},
		{"Skipped", summary.Skipped},
	}
	for _, c := range models.AllCategories() {
		rows = append(rows, [2]any{fmt.Sprintf("Category: %s", c), byCategory[c]})
	}

	for i, r := range rows {
		keyCell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		valCell, err := excelize.CoordinatesToCellName(2, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, keyCell, r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, valCell, r[1]); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	return nil
}

// Write renders the summary to an XLSX file at path.
func (w *ExcelWriter) Write(summary *models.BatchSummary, path string) error {
	f, err := w.Build(summary)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("report written",
		zap.String("path", path),
		zap.Int("outcomes", len(summary.Outcomes)))
	return nil
}

// WriteTo renders the summary as XLSX bytes into wr.
func (w *ExcelWriter) WriteTo(summary *models.BatchSummary, wr io.Writer) error {
	f, err := w.Build(summary)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(wr); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SummaryForExport wraps stored history outcomes in a synthetic summary so
// exports share one rendering path with live batch runs.
func SummaryForExport(id string, outcomes []*models.Outcome) *models.BatchSummary {
	summary := &models.BatchSummary{
		ID:       id,
		Outcomes: make([]*models.Outcome, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		summary.Add(o)
	}
	return summary
}
