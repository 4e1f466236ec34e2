// Package vserrors defines the error-kind taxonomy (§7): plain sentinel
// values wrapped with fmt.Errorf("...: %w", err), tested with errors.Is,
// matching the teacher's no-custom-error-package style.
package vserrors

import "errors"

var (
	// ErrInputUnreadable: PDF cannot be opened or rendered. Fatal.
	ErrInputUnreadable = errors.New("input unreadable")

	// ErrOCRUnavailable: OCR backend missing or failing on all pages.
	// Triggers the OCRmyPDF fallback.
	ErrOCRUnavailable = errors.New("ocr unavailable")

	// ErrNoGlyphs (VectorisationEmpty): no glyph successfully vectorised.
	// Triggers the fallback.
	ErrNoGlyphs = errors.New("no glyphs vectorised")

	// ErrTracerBackendMissing: both tracer backends unavailable. Treated
	// as ErrNoGlyphs by callers.
	ErrTracerBackendMissing = errors.New("no tracer backend available")

	// ErrDegradedDependency: a fallback tool (page cleaner, quantiser) is
	// missing inside OCRmyPDF; caller retries with reduced options.
	ErrDegradedDependency = errors.New("degraded dependency")

	// ErrOutputWriteFailed: final serialisation failed. Fatal.
	ErrOutputWriteFailed = errors.New("output write failed")
)
