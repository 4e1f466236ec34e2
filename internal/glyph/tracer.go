package glyph

import (
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dennwc/gotrace"
	"golang.org/x/image/bmp"

	"github.com/vectorscan/vectorscan/internal/config"
)

// Tracer is the polymorphic capability set from §9's design note: a
// raster-to-SVG backend that either produces an SVG document or declines.
// Variants are enumerated (InProcessTracer, SubprocessTracer) rather than
// discovered dynamically.
type Tracer interface {
	TryTrace(bin *image.Gray) (svgDoc string, ok bool)
}

// InProcessTracer is backend #1 of the cascade (§4.4): dennwc/gotrace run
// in-process, binary colour mode, serialised to SVG text via pathsToSVG so
// it is transcoded by the exact same SVG-path stage as the subprocess
// backend.
type InProcessTracer struct {
	TurdSize int
}

func NewInProcessTracer(cfg config.TracerConfig) *InProcessTracer {
	return &InProcessTracer{TurdSize: cfg.FilterSpeckle}
}

func (t *InProcessTracer) TryTrace(bin *image.Gray) (string, bool) {
	params := gotrace.Defaults
	params.TurdSize = t.TurdSize

	bm := gotrace.NewBitmapFromImage(bin, func(x, y int, cl color.Color) bool {
		v, _, _, _ := cl.RGBA()
		return v < 0x8000
	})
	paths, err := gotrace.Trace(bm, &params)
	if err != nil || len(paths) == 0 {
		return "", false
	}
	svg := pathsToSVG(paths)
	if svg == "" {
		return "", false
	}
	return svg, true
}

// SubprocessTracer is backend #2 of the cascade (§4.4): an external
// command-line tracer (e.g. potrace) invoked on a temporary BMP, producing
// SVG to a temporary file — grounded on
// original_source/engine/glyph_pipeline/vectorizer.py's _svg_via_potrace.
type SubprocessTracer struct {
	Command string // e.g. "potrace"
}

func NewSubprocessTracer(cfg config.TracerConfig) *SubprocessTracer {
	return &SubprocessTracer{Command: cfg.ExternalTracer}
}

func (t *SubprocessTracer) TryTrace(bin *image.Gray) (string, bool) {
	if t.Command == "" {
		return "", false
	}
	if _, err := exec.LookPath(t.Command); err != nil {
		return "", false
	}

	dir, err := os.MkdirTemp("", "vectorscan-trace-*")
	if err != nil {
		return "", false
	}
	defer os.RemoveAll(dir)

	bmpPath := filepath.Join(dir, "glyph.bmp")
	svgPath := filepath.Join(dir, "glyph.svg")

	f, err := os.Create(bmpPath)
	if err != nil {
		return "", false
	}
	encErr := bmp.Encode(f, bin)
	f.Close()
	if encErr != nil {
		return "", false
	}

	cmd := exec.Command(t.Command, "--svg", "-o", svgPath, bmpPath)
	if err := cmd.Run(); err != nil {
		return "", false
	}

	svg, err := os.ReadFile(svgPath)
	if err != nil || len(svg) == 0 {
		return "", false
	}
	return string(svg), true
}

// Cascade runs tracers in order; the first backend to produce SVG wins
// (§4.4, §9). If no backend emits SVG, ok is false.
func Cascade(tracers []Tracer, bin *image.Gray) (string, bool) {
	for _, t := range tracers {
		if svg, ok := t.TryTrace(bin); ok {
			return svg, true
		}
	}
	return "", false
}

// DefaultTracers returns the two enumerated backends in cascade order.
func DefaultTracers(cfg config.TracerConfig) []Tracer {
	return []Tracer{NewInProcessTracer(cfg), NewSubprocessTracer(cfg)}
}
