package glyph

import (
	"image"
	"image/draw"

	"github.com/vectorscan/vectorscan/internal/core"
)

// threshold is the luminance cutoff for binarisation (§4.4): below is
// glyph (black, 0x00), at or above is background (white, 0xFF).
const threshold = 128

// Binarize converts img to 8-bit luminance and thresholds at 128: glyph
// pixels become 0x00, background becomes 0xFF (§4.4).
func Binarize(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	for i, v := range gray.Pix {
		if v < threshold {
			gray.Pix[i] = 0x00
		} else {
			gray.Pix[i] = 0xFF
		}
	}
	return gray
}

// Vectorize crops the representative box out of its page bitmap,
// binarises it, and drives the tracer cascade (§4.4). It returns nil if
// every backend fails, or if h_px == 0 — both are silent drops, never
// errors, per the Propagation policy (§7).
func Vectorize(group core.GlyphGroup, tracers []Tracer) *core.VectorGlyph {
	ref := group.Representative()
	box := ref.Box()

	wPx := box.X2 - box.X1
	hPx := box.Y2 - box.Y1
	if hPx <= 0 || wPx <= 0 {
		return nil
	}

	crop := cropImage(ref.Page.Bitmap, box.X1, box.Y1, box.X2, box.Y2)
	bin := Binarize(crop)

	svg, ok := Cascade(tracers, bin)
	if !ok {
		return nil
	}

	pathOps, ok := TranscodePaths(svg, float64(hPx))
	if !ok {
		return nil
	}

	advance := em * float64(wPx) / float64(hPx)
	return &core.VectorGlyph{
		Char:         group.Char,
		AdvanceWidth: advance,
		PathOps:      pathOps,
	}
}

// VectorizeAll vectorises every group, skipping codepoints whose backend
// cascade fails entirely. The input groups slice must already be in
// codepoint-ascending order (as Aggregate returns); the output map's
// keyset defines font coverage (§3 VectorGlyph).
func VectorizeAll(groups []core.GlyphGroup, tracers []Tracer) map[rune]*core.VectorGlyph {
	out := make(map[rune]*core.VectorGlyph, len(groups))
	for _, g := range groups {
		if vg := Vectorize(g, tracers); vg != nil {
			out[g.Char] = vg
		}
	}
	return out
}

func cropImage(src *image.RGBA, x1, y1, x2, y2 int) *image.RGBA {
	rect := image.Rect(0, 0, x2-x1, y2-y1)
	dst := image.NewRGBA(rect)
	draw.Draw(dst, rect, src, image.Pt(x1, y1), draw.Src)
	return dst
}
