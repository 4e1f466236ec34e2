// Package raster implements the Page Rasteriser (§4.1): it opens a source
// PDF and renders each page to an RGB bitmap at a fixed DPI, in document
// order, producing core.PageFrame values.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	gopdf "github.com/novvoo/go-poppler/pkg/pdf"

	"github.com/vectorscan/vectorscan/internal/core"
	"github.com/vectorscan/vectorscan/internal/vserrors"
)

// RenderPages opens path and rasterises every page to an RGB bitmap at the
// given DPI. On any failure — the document cannot be opened, or any page
// cannot be rendered — the whole call fails with ErrInputUnreadable;
// partial-page success is never returned (§4.1 Failure).
func RenderPages(path string, dpi int) ([]*core.PageFrame, error) {
	doc, err := gopdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", vserrors.ErrInputUnreadable, path, err)
	}
	defer doc.Close()

	n := doc.NumPages()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", vserrors.ErrInputUnreadable, path)
	}

	renderer := gopdf.NewPageRenderer(doc, gopdf.RenderOptions{
		DPI:    float64(dpi),
		Format: "png",
	})

	frames := make([]*core.PageFrame, n)
	for i := 1; i <= n; i++ {
		rendered, err := renderer.RenderPage(i)
		if err != nil {
			return nil, fmt.Errorf("%w: rendering page %d of %s: %v", vserrors.ErrInputUnreadable, i, path, err)
		}

		img, err := png.Decode(bytes.NewReader(rendered.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding rendered page %d of %s: %v", vserrors.ErrInputUnreadable, i, path, err)
		}

		rgba := toRGBA(img)
		if rgba.Bounds().Dx() == 0 || rgba.Bounds().Dy() == 0 {
			return nil, fmt.Errorf("%w: page %d of %s rendered to an empty bitmap", vserrors.ErrInputUnreadable, i, path)
		}

		page, err := doc.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("%w: reading page %d dimensions of %s: %v", vserrors.ErrInputUnreadable, i, path, err)
		}

		frames[i-1] = &core.PageFrame{
			Index:    i - 1,
			Bitmap:   rgba,
			WidthPx:  rendered.Width,
			HeightPx: rendered.Height,
			WidthPt:  page.Width(),
			HeightPt: page.Height(),
		}
	}

	return frames, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return rgba
}
