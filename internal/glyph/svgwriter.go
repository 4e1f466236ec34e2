package glyph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dennwc/gotrace"
)

// pathsToSVG serialises gotrace's traced paths into a literal SVG document
// with a single <path> element, so the in-process tracer backend feeds the
// same SVG-path transcoder (TranscodePaths) that parses a subprocess
// tracer's output — per §9's design note that the transcoder is a single
// shared stage regardless of which backend produced the SVG.
//
// This mirrors appendPDFSubpath/appendPDFSubpathTree in the teacher's
// vector.go, except it emits SVG command letters (M/L/C/Z) instead of PDF
// operators directly, leaving the coordinate-frame conversion to the
// shared transcoder.
func pathsToSVG(paths []gotrace.Path) string {
	var d strings.Builder
	for _, p := range paths {
		appendSVGSubpathTree(&d, p)
	}
	if d.Len() == 0 {
		return ""
	}
	return fmt.Sprintf(`<svg><path d="%s"/></svg>`, d.String())
}

func appendSVGSubpathTree(d *strings.Builder, p gotrace.Path) {
	appendSVGSubpath(d, p)
	for _, child := range p.Childs {
		appendSVGSubpathTree(d, child)
	}
}

func appendSVGSubpath(d *strings.Builder, p gotrace.Path) {
	c := p.Curve
	if len(c) == 0 {
		return
	}

	last := c[len(c)-1]
	d.WriteByte('M')
	d.WriteString(num(last.Pnt[2].X))
	d.WriteByte(',')
	d.WriteString(num(last.Pnt[2].Y))

	for _, seg := range c {
		switch seg.Type {
		case gotrace.TypeBezier:
			d.WriteByte('C')
			d.WriteString(num(seg.Pnt[0].X))
			d.WriteByte(',')
			d.WriteString(num(seg.Pnt[0].Y))
			d.WriteByte(' ')
			d.WriteString(num(seg.Pnt[1].X))
			d.WriteByte(',')
			d.WriteString(num(seg.Pnt[1].Y))
			d.WriteByte(' ')
			d.WriteString(num(seg.Pnt[2].X))
			d.WriteByte(',')
			d.WriteString(num(seg.Pnt[2].Y))
		case gotrace.TypeCorner:
			d.WriteByte('L')
			d.WriteString(num(seg.Pnt[1].X))
			d.WriteByte(',')
			d.WriteString(num(seg.Pnt[1].Y))
			d.WriteByte('L')
			d.WriteString(num(seg.Pnt[2].X))
			d.WriteByte(',')
			d.WriteString(num(seg.Pnt[2].Y))
		}
	}
	d.WriteByte('Z')
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
