package ocrbox

import (
	"errors"
	"image"
	"testing"

	"github.com/vectorscan/vectorscan/internal/core"
)

type fakeEngine struct {
	legacy      []RawBox
	legacyErr   error
	neuralHOCR  []byte
	neuralErr   error
	neuralCalls int
}

func (f *fakeEngine) ExtractLegacy(img image.Image, lang string) ([]RawBox, error) {
	return f.legacy, f.legacyErr
}

func (f *fakeEngine) ExtractNeural(img image.Image, lang string) ([]byte, error) {
	f.neuralCalls++
	return f.neuralHOCR, f.neuralErr
}

func newPage() *core.PageFrame {
	return &core.PageFrame{
		Index:    0,
		Bitmap:   image.NewRGBA(image.Rect(0, 0, 200, 200)),
		WidthPx:  200,
		HeightPx: 200,
	}
}

func TestExtractLegacySuccessSkipsNeural(t *testing.T) {
	page := newPage()
	eng := &fakeEngine{legacy: []RawBox{
		{Text: "H", X1: 100, Y1: 40, X2: 140, Y2: 100, Confidence: 95},
	}}

	Extract(page, eng, "eng")

	if eng.neuralCalls != 0 {
		t.Errorf("neural engine called %d times, want 0", eng.neuralCalls)
	}
	if len(page.CharBoxes) != 1 {
		t.Fatalf("got %d boxes, want 1", len(page.CharBoxes))
	}
	b := page.CharBoxes[0]
	if b.Char != 'H' {
		t.Errorf("char = %q, want H", b.Char)
	}
	// Y-flip: y1_top = height - y2_raw = 200-100=100; y2_top = height-y1_raw=200-40=160
	if b.Y1 != 100 || b.Y2 != 160 {
		t.Errorf("Y-flip wrong: got y1=%d y2=%d, want 100,160", b.Y1, b.Y2)
	}
}

func TestExtractFallsBackToNeuralOnLegacyFailure(t *testing.T) {
	page := newPage()
	hocr := []byte(`<html><body><div class="ocr_page" title="bbox 0 0 200 200">
	<span class="ocrx_cinfo" title="bbox 10 10 30 40; x_wconf 90">i</span>
	</div></body></html>`)
	eng := &fakeEngine{legacyErr: errors.New("legacy backend missing"), neuralHOCR: hocr}

	Extract(page, eng, "eng")

	if eng.neuralCalls != 1 {
		t.Fatalf("neural engine called %d times, want 1", eng.neuralCalls)
	}
	if len(page.CharBoxes) != 1 || page.CharBoxes[0].Char != 'i' {
		t.Fatalf("got boxes %+v, want single 'i' box", page.CharBoxes)
	}
}

func TestExtractBothFailuresYieldEmptyNotError(t *testing.T) {
	page := newPage()
	eng := &fakeEngine{legacyErr: errors.New("no legacy"), neuralErr: errors.New("no neural")}

	Extract(page, eng, "eng")

	if page.CharBoxes != nil {
		t.Errorf("expected nil CharBoxes, got %+v", page.CharBoxes)
	}
}

func TestHygieneDropsWhitespaceAndDegenerateBoxes(t *testing.T) {
	page := newPage()
	eng := &fakeEngine{legacy: []RawBox{
		{Text: " ", X1: 0, Y1: 0, X2: 10, Y2: 10},
		{Text: "x", X1: 10, Y1: 10, X2: 10, Y2: 20}, // x2<=x1
		{Text: "y", X1: 20, Y1: 20, X2: 30, Y2: 20}, // y2<=y1
		{Text: "A", X1: 5, Y1: 5, X2: 15, Y2: 15},
	}}

	Extract(page, eng, "eng")

	if len(page.CharBoxes) != 1 || page.CharBoxes[0].Char != 'A' {
		t.Fatalf("got %+v, want single 'A' box", page.CharBoxes)
	}
}
