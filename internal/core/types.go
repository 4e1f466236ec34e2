// Package core holds the data-model entities shared across the
// vectorisation pipeline stages: PageFrame, CharBox, GlyphGroup and
// VectorGlyph. Keeping these in one package avoids import cycles between
// internal/raster, internal/ocrbox, internal/glyph and internal/type3,
// which all read or write some subset of them.
package core

import "image"

// PageFrame is one rasterised page: a bitmap plus the pixel/point
// dimensions needed to convert between the pixel and PDF-user coordinate
// frames (GLOSSARY, §3).
type PageFrame struct {
	Index     int // 0-based, dense
	Bitmap    *image.RGBA
	WidthPx   int
	HeightPx  int
	WidthPt   float64
	HeightPt  float64
	CharBoxes []CharBox
}

// PtFromPx converts a pixel-frame length to PDF points at this page's DPI.
func (p *PageFrame) PtFromPx(px float64) float64 {
	return px * 72.0 / p.DPI()
}

// DPI recovers the rasterisation DPI from the pixel/point ratio, per the
// invariant width_px/width_pt == dpi/72.
func (p *PageFrame) DPI() float64 {
	if p.WidthPt == 0 {
		return 0
	}
	return float64(p.WidthPx) / p.WidthPt * 72.0
}

// CharBox is a single OCR character box in top-left-origin pixel space.
type CharBox struct {
	Char       rune
	X1, Y1     int
	X2, Y2     int
	PageIndex  int
	Confidence float64
}

func (b CharBox) Area() int {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Valid reports whether b satisfies the Data Model invariants for CharBox.
func (b CharBox) Valid(page *PageFrame) bool {
	if b.X1 < 0 || b.X1 >= b.X2 || b.X2 > page.WidthPx {
		return false
	}
	if b.Y1 < 0 || b.Y1 >= b.Y2 || b.Y2 > page.HeightPx {
		return false
	}
	return true
}

// BoxRef is a non-owning pointer into a PageFrame's CharBoxes slice,
// identified by index rather than held as a Go pointer so GlyphGroup never
// outlives a reslice of the owning PageFrame's CharBoxes.
type BoxRef struct {
	Page     *PageFrame
	BoxIndex int
}

func (r BoxRef) Box() CharBox { return r.Page.CharBoxes[r.BoxIndex] }

// GlyphGroup partitions all CharBoxes across all pages by codepoint.
type GlyphGroup struct {
	Char  rune
	Boxes []BoxRef
}

// Representative returns the box with maximal area, ties broken by the
// smallest (page index, y1, x1) tuple (§4.3).
func (g GlyphGroup) Representative() BoxRef {
	best := g.Boxes[0]
	bestBox := best.Box()
	for _, ref := range g.Boxes[1:] {
		box := ref.Box()
		if betterRepresentative(box, ref.Page.Index, bestBox, best.Page.Index) {
			best, bestBox = ref, box
		}
	}
	return best
}

func betterRepresentative(cand CharBox, candPage int, cur CharBox, curPage int) bool {
	ca, cb := cand.Area(), cur.Area()
	if ca != cb {
		return ca > cb
	}
	if candPage != curPage {
		return candPage < curPage
	}
	if cand.Y1 != cur.Y1 {
		return cand.Y1 < cur.Y1
	}
	return cand.X1 < cur.X1
}

// VectorGlyph is a vectorised glyph: advance width in em units and a
// PDF operator path string already expressed in the glyph frame.
type VectorGlyph struct {
	Char          rune
	AdvanceWidth  float64
	PathOps       string
}
