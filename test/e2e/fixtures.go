// Package e2e runs the whole pipeline over a seeded document tree; this file
// builds minimal binary files for the supported formats.
package e2e

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// WriteMinimalFile returns file bytes of the given extension carrying text.
// Plain text passes through; .docx wraps the text in a minimal OOXML package.
// A PDF with extractable text cannot be handcrafted minimally, so PDF success
// paths are covered by the extract package tests instead.
func WriteMinimalFile(ext, text string) ([]byte, error) {
	switch ext {
	case ".txt":
		return []byte(text), nil
	case ".docx":
		return minimalDocx(text), nil
	default:
		return nil, fmt.Errorf("no fixture builder for %s", ext)
	}
}

func minimalDocx(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

// CorruptPDF returns bytes that carry a PDF signature but no readable
// structure, for exercising the failed-outcome path.
func CorruptPDF() []byte {
	return []byte("%PDF-1.7\nthis is not a real xref table")
}
