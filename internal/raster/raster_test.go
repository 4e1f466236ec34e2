package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/vectorscan/vectorscan/internal/vserrors"
)

func TestToRGBAPreservesPixels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{Y: 10})
	gray.SetGray(1, 1, color.Gray{Y: 200})

	rgba := toRGBA(gray)
	if rgba.Bounds() != gray.Bounds() {
		t.Fatalf("bounds mismatch: got %v want %v", rgba.Bounds(), gray.Bounds())
	}
	r, g, b, _ := rgba.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 10 || b>>8 != 10 {
		t.Errorf("pixel (0,0) = %d,%d,%d, want 10,10,10", r>>8, g>>8, b>>8)
	}
}

func TestToRGBAPassesThroughExistingRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	got := toRGBA(src)
	if got != src {
		t.Error("toRGBA should return the same *image.RGBA without copying")
	}
}

func TestRenderPagesUnreadableInput(t *testing.T) {
	_, err := RenderPages("/nonexistent/path/does-not-exist.pdf", 300)
	if err == nil {
		t.Fatal("expected error for nonexistent input")
	}
	if !errors.Is(err, vserrors.ErrInputUnreadable) {
		t.Errorf("error = %v, want wrapped ErrInputUnreadable", err)
	}
}
