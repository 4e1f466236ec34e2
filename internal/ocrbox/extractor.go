// Package ocrbox implements the Character Box Extractor (§4.2): it drives
// an OCR engine cascade (legacy mode first, neural/hOCR mode as fallback)
// to populate a PageFrame's CharBoxes in top-left-origin pixel space.
package ocrbox

import (
	"image"
	"unicode"

	"github.com/clipperhouse/uax29/v2/graphemes"

	"github.com/vectorscan/vectorscan/internal/core"
)

// RawBox is a single character box as reported by an Engine, in
// bottom-left-origin pixel space (the OCR backend's native frame, before
// the Y-flip in §4.2 is applied).
type RawBox struct {
	Text       string
	X1, Y1     int
	X2, Y2     int
	Confidence float64
}

// Engine is the black-box OCR collaborator. Legacy and Neural are two
// independent engine modes tried in cascade; either may fail (backend
// missing, language data absent, crash) without that being a pipeline
// error — a page with zero boxes from both modes is a valid outcome.
type Engine interface {
	ExtractLegacy(img image.Image, lang string) ([]RawBox, error)
	ExtractNeural(img image.Image, lang string) ([]byte, error) // raw hOCR document
}

// Extract populates page.CharBoxes by running the engine cascade. It has
// no error result: per §4.2/§7, OCR failure on both modes simply leaves
// CharBoxes empty.
func Extract(page *core.PageFrame, engine Engine, lang string) {
	raw, err := engine.ExtractLegacy(page.Bitmap, lang)
	if err != nil || len(raw) == 0 {
		hocr, herr := engine.ExtractNeural(page.Bitmap, lang)
		if herr != nil {
			page.CharBoxes = nil
			return
		}
		raw = parseHOCR(hocr)
	}

	page.CharBoxes = hygiene(raw, page)
}

// hygiene applies the box-hygiene rules and the bottom-left→top-left
// Y-flip (§4.2).
func hygiene(raw []RawBox, page *core.PageFrame) []core.CharBox {
	var out []core.CharBox
	for _, rb := range raw {
		r, ok := singleGrapheme(rb.Text)
		if !ok {
			continue
		}
		if unicode.IsSpace(r) || r == 0 {
			continue
		}
		if rb.X2 <= rb.X1 || rb.Y2 <= rb.Y1 {
			continue
		}

		y1Top := page.HeightPx - rb.Y2
		y2Top := page.HeightPx - rb.Y1

		box := core.CharBox{
			Char:       r,
			X1:         rb.X1,
			Y1:         y1Top,
			X2:         rb.X2,
			Y2:         y2Top,
			PageIndex:  page.Index,
			Confidence: rb.Confidence,
		}
		if !box.Valid(page) {
			continue
		}
		out = append(out, box)
	}
	return out
}

// singleGrapheme reports whether s is exactly one grapheme cluster and
// returns its rune when that cluster is itself a single code point (the
// CharBox model holds one rune; multi-rune clusters, e.g. combining
// sequences, cannot be represented and are rejected here).
func singleGrapheme(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	seg := graphemes.NewSegmenter([]byte(s))
	if !seg.Next() {
		return 0, false
	}
	cluster := seg.Value()
	if seg.Next() {
		return 0, false // more than one cluster
	}
	runes := []rune(string(cluster))
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}
