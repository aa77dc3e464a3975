package models

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the failure class carried by a ProcessingError.
type ErrorKind string

const (
	// ErrorKindUnsupportedFormat means the file extension is not in the
	// dispatch table. Batch runs count these as skipped, not failed.
	ErrorKindUnsupportedFormat ErrorKind = "unsupported_format"
	// ErrorKindExtraction means an adapter could not produce text
	// (malformed file, missing decoder, I/O failure).
	ErrorKindExtraction ErrorKind = "extraction_error"
	// ErrorKindClassification is reserved for the remote classification
	// strategy; the keyword classifier cannot fail.
	ErrorKindClassification ErrorKind = "classification_error"
)

// ProcessingError is a typed pipeline error. Every failure crossing the
// document processor boundary is one of these; nothing propagates past the
// batch runner uncaught.
type ProcessingError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// NewUnsupportedFormatError reports an extension outside the dispatch table.
func NewUnsupportedFormatError(ext string) *ProcessingError {
	msg := fmt.Sprintf("unsupported file extension %q", ext)
	if ext == "" {
		msg = "file has no extension"
	}
	return &ProcessingError{Kind: ErrorKindUnsupportedFormat, Message: msg}
}

// NewExtractionError wraps an adapter or I/O failure.
func NewExtractionError(message string, err error) *ProcessingError {
	return &ProcessingError{Kind: ErrorKindExtraction, Message: message, Err: err}
}

// NewClassificationError wraps a remote classifier failure.
func NewClassificationError(message string, err error) *ProcessingError {
	return &ProcessingError{Kind: ErrorKindClassification, Message: message, Err: err}
}

// KindOf returns the ErrorKind carried by err. Untyped errors classify as
// extraction failures, the broadest kind.
func KindOf(err error) ErrorKind {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrorKindExtraction
}
