// Package extract provides text extraction from document files.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hyperjump/bunrui/internal/models"
)

// Adapter converts one format family's file bytes into plain text.
// Adapters return plain errors; the Extractor wraps them into typed
// processing errors so no failure crosses the pipeline boundary untyped.
type Adapter interface {
	Name() string
	Extensions() []string
	Extract(ctx context.Context, content []byte) (string, error)
}

// Extractor dispatches files to adapters through an explicit extension
// table built from each adapter's declared extension set.
type Extractor struct {
	adapters map[string]Adapter
}

// NewExtractor builds a dispatcher over the given adapters. Extensions are
// matched case-insensitively; later adapters win on overlap.
func NewExtractor(adapters ...Adapter) *Extractor {
	e := &Extractor{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		for _, ext := range a.Extensions() {
			e.adapters[strings.ToLower(ext)] = a
		}
	}
	return e
}

// NewDefaultExtractor returns the production dispatch table:
// .txt (text), .pdf (pdf), .doc/.docx (word), .jpg/.jpeg/.png (ocr).
func NewDefaultExtractor(ocr ImageOptions) *Extractor {
	return NewExtractor(
		NewPlainAdapter(),
		NewPDFAdapter(),
		NewWordAdapter(),
		NewImageAdapter(ocr),
	)
}

// Supports reports whether path has an extension in the dispatch table.
func (e *Extractor) Supports(path string) bool {
	_, ok := e.adapters[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SupportedExtensions returns the recognized extensions, sorted.
func (e *Extractor) SupportedExtensions() []string {
	exts := make([]string, 0, len(e.adapters))
	for ext := range e.adapters {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract reads the file at path and returns its text content. An extension
// outside the table fails with an unsupported-format error before any I/O;
// read and adapter failures become extraction errors naming the adapter.
// Empty extracted text is a valid result, not an error.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	adapter, ok := e.adapters[ext]
	if !ok {
		return "", models.NewUnsupportedFormatError(ext)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", models.NewExtractionError("read file", err)
	}
	return runAdapter(ctx, adapter, content)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(ctx context.Context, content []byte, ext string) (string, error) {
	adapter, ok := e.adapters[strings.ToLower(ext)]
	if !ok {
		return "", models.NewUnsupportedFormatError(ext)
	}
	return runAdapter(ctx, adapter, content)
}

// runAdapter invokes an adapter and converts failures to extraction errors.
// Some format parsers panic on malformed input; a corrupt file must surface
// as a failed result, not take down a batch, so panics are recovered here.
func runAdapter(ctx context.Context, adapter Adapter, content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = models.NewExtractionError(fmt.Sprintf("extract %s", adapter.Name()), fmt.Errorf("parser panic: %v", r))
		}
	}()
	text, err = adapter.Extract(ctx, content)
	if err != nil {
		return "", models.NewExtractionError(fmt.Sprintf("extract %s", adapter.Name()), err)
	}
	// OCR and PDF parsers can emit decomposed Unicode; normalize to NFC so
	// rune counts and keyword matching see one form.
	return norm.NFC.String(text), nil
}
