// Package pipeline implements the Serialiser & Orchestration stage (§4.7):
// it wires Page Rasteriser → Character Box Extractor → Glyph Aggregator →
// Vectoriser → Type 3 Font Assembler → Overlay Writer → Serialiser into one
// job, and decides when the error taxonomy (§7) hands the job to the
// OCRmyPDF fallback instead.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/vectorscan/vectorscan/internal/config"
	"github.com/vectorscan/vectorscan/internal/fallback"
	"github.com/vectorscan/vectorscan/internal/glyph"
	"github.com/vectorscan/vectorscan/internal/ocrbox"
	"github.com/vectorscan/vectorscan/internal/overlay"
	"github.com/vectorscan/vectorscan/internal/raster"
	"github.com/vectorscan/vectorscan/internal/type3"
	"github.com/vectorscan/vectorscan/internal/vserrors"
)

// Params is one job's CLI-surface parameters (§6).
type Params struct {
	InputPath    string
	OutputPath   string
	Lang         string
	Mode         string // "fast" | "best"
	ForceOCR     bool
	OutputType   string // "pdf" | "pdfa-2"
	Optimize     int
	OCRmyPDFPath string
}

// Run executes one job end to end. It tries the vector pipeline first;
// InputUnreadable is fatal (no fallback, §7). A NoGlyphs failure from the
// assembler — which also covers OCRUnavailable (zero boxes on every page)
// and VectoriserBackendMissing, both specified to collapse into the same
// empty-glyph-map outcome — triggers the OCRmyPDF fallback. Any failure to
// write the final output is fatal as OutputWriteFailed.
func Run(ctx context.Context, cfg config.Config, p Params, engine ocrbox.Engine, log io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(p.OutputPath), 0o755); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", vserrors.ErrOutputWriteFailed, err)
	}

	err := runVectorPipeline(ctx, cfg, p, engine, log)
	if err == nil {
		return nil
	}
	if !shouldFallback(err) {
		return err // InputUnreadable or OutputWriteFailed: fatal, no fallback (§7)
	}

	fmt.Fprintf(log, "vector pipeline yielded no glyphs (%v); falling back to ocrmypdf\n", err)
	return runFallback(ctx, cfg, p, log)
}

// shouldFallback reports whether err hands the job to the OCRmyPDF
// fallback path rather than ending it in the error terminal state. Per §7,
// NoGlyphs, OCRUnavailable and VectoriserBackendMissing (itself specified
// to collapse into NoGlyphs) trigger the fallback; InputUnreadable and
// OutputWriteFailed are fatal.
func shouldFallback(err error) bool {
	return errors.Is(err, vserrors.ErrNoGlyphs) ||
		errors.Is(err, vserrors.ErrOCRUnavailable) ||
		errors.Is(err, vserrors.ErrTracerBackendMissing)
}

func runVectorPipeline(ctx context.Context, cfg config.Config, p Params, engine ocrbox.Engine, log io.Writer) error {
	pages, err := raster.RenderPages(p.InputPath, cfg.Raster.DPI)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lang := p.Lang
	if lang == "" {
		lang = cfg.OCR.Lang
	}
	for _, page := range pages { // page-index ascending (§5)
		ocrbox.Extract(page, engine, lang)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	groups := glyph.Aggregate(pages)
	tracers := glyph.DefaultTracers(cfg.Tracer)
	glyphs := glyph.VectorizeAll(groups, tracers)

	pdfCtx, err := api.ReadContextFile(p.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", vserrors.ErrInputUnreadable, err)
	}

	font, err := type3.Assemble(pdfCtx.XRefTable, glyphs)
	if err != nil {
		return err // vserrors.ErrNoGlyphs
	}

	if err := overlay.Apply(pdfCtx, pages, font); err != nil {
		return fmt.Errorf("%w: %v", vserrors.ErrOutputWriteFailed, err)
	}
	if err := api.WriteContextFile(pdfCtx, p.OutputPath); err != nil {
		return fmt.Errorf("%w: %v", vserrors.ErrOutputWriteFailed, err)
	}
	fmt.Fprintf(log, "wrote vectorised overlay for %d page(s) with %d glyph(s) to %s\n", len(pages), len(glyphs), p.OutputPath)
	return nil
}

func runFallback(ctx context.Context, cfg config.Config, p Params, log io.Writer) error {
	ocrmypdfPath := p.OCRmyPDFPath
	if ocrmypdfPath == "" {
		ocrmypdfPath = cfg.Fallback.OCRmyPDFPath
	}
	lang := p.Lang
	if lang == "" {
		lang = cfg.OCR.Lang
	}
	return fallback.Run(ctx, ocrmypdfPath, fallback.Params{
		Input:      p.InputPath,
		Output:     p.OutputPath,
		Lang:       lang,
		Mode:       p.Mode,
		ForceOCR:   p.ForceOCR,
		OutputType: p.OutputType,
		Optimize:   p.Optimize,
		Jobs:       cfg.Fallback.Jobs,
	}, log)
}
