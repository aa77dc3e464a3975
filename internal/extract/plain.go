package extract

import (
	"context"
	"strings"
	"unicode/utf8"
)

// PlainAdapter handles plain text files.
type PlainAdapter struct{}

// NewPlainAdapter returns a new PlainAdapter.
func NewPlainAdapter() *PlainAdapter {
	return &PlainAdapter{}
}

// Name returns the adapter name.
func (*PlainAdapter) Name() string { return "text" }

// Extensions returns the extensions this adapter handles.
func (*PlainAdapter) Extensions() []string { return []string{".txt"} }

// Extract returns content as a string, validating it is valid UTF-8.
// Invalid UTF-8 sequences are replaced with the replacement character;
// decoding itself never fails.
func (*PlainAdapter) Extract(_ context.Context, content []byte) (string, error) {
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "�"))
	}
	return string(content), nil
}
