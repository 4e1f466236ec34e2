package glyph

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// em is the nominal glyph-space em height (§3 Coordinate systems, §4.5).
const em = 1000.0

var (
	rePathData = regexp.MustCompile(`(?is)<path[^>]*\bd\s*=\s*"([^"]*)"`)
	reToken    = regexp.MustCompile(`[MmLlCcQqZzHhVvAaSsTt]|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// extractPathData returns every `d` attribute value from `<path>` elements
// in svgDoc, in document order, matched case-insensitively (§4.4).
func extractPathData(svgDoc string) []string {
	matches := rePathData.FindAllStringSubmatch(svgDoc, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// TranscodePaths is the SVG-path transcoder (§4.4, §9): it extracts every
// `d` attribute from svgDoc and converts each into PDF path operators in
// the glyph frame, using the uniform scale s = EM/hPx. It returns ok=false
// if svgDoc has no paths, or if any path uses a command this transcoder
// does not support (A, S, T, H, V) — per spec, an implementation MAY
// decline the whole glyph rather than emit wrong geometry.
func TranscodePaths(svgDoc string, hPx float64) (string, bool) {
	if hPx <= 0 {
		return "", false
	}
	datas := extractPathData(svgDoc)
	if len(datas) == 0 {
		return "", false
	}

	s := em / hPx
	var buf strings.Builder
	for _, d := range datas {
		if !transcodePath(&buf, d, s, hPx) {
			return "", false
		}
	}
	buf.WriteString("f")
	return buf.String(), true
}

type token struct {
	isCmd bool
	cmd   byte
	num   float64
}

func tokenize(d string) []token {
	raws := reToken.FindAllString(d, -1)
	toks := make([]token, 0, len(raws))
	for _, r := range raws {
		switch r[0] {
		case 'M', 'm', 'L', 'l', 'C', 'c', 'Q', 'q', 'Z', 'z',
			'H', 'h', 'V', 'v', 'A', 'a', 'S', 's', 'T', 't':
			toks = append(toks, token{isCmd: true, cmd: r[0]})
		default:
			v, err := strconv.ParseFloat(r, 64)
			if err != nil {
				continue
			}
			toks = append(toks, token{num: v})
		}
	}
	return toks
}

// transcodePath appends one subpath tree's worth of PDF operators for a
// single `d` string to buf, returning false on any unsupported command.
func transcodePath(buf *strings.Builder, d string, s, hPx float64) bool {
	toks := tokenize(d)
	var cx, cy, sx, sy float64
	i := 0

	fx := func(v float64) string { return fixed4(v * s) }
	fy := func(v float64) string { return fixed4((hPx - v) * s) }

	nums := func(n int) ([]float64, bool) {
		if i+n > len(toks) {
			return nil, false
		}
		out := make([]float64, n)
		for k := 0; k < n; k++ {
			if toks[i+k].isCmd {
				return nil, false
			}
			out[k] = toks[i+k].num
		}
		i += n
		return out, true
	}
	hasMoreArgs := func() bool { return i < len(toks) && !toks[i].isCmd }

	for i < len(toks) {
		if !toks[i].isCmd {
			return false
		}
		cmd := toks[i].cmd
		i++

		switch cmd {
		case 'M', 'm':
			args, ok := nums(2)
			if !ok {
				return false
			}
			x, y := args[0], args[1]
			if cmd == 'm' {
				x, y = cx+x, cy+y
			}
			cx, cy, sx, sy = x, y, x, y
			fmt.Fprintf(buf, "%s %s m\n", fx(cx), fy(cy))
			for hasMoreArgs() {
				args, ok := nums(2)
				if !ok {
					return false
				}
				x, y := args[0], args[1]
				if cmd == 'm' {
					x, y = cx+x, cy+y
				}
				cx, cy = x, y
				fmt.Fprintf(buf, "%s %s l\n", fx(cx), fy(cy))
			}
		case 'L', 'l':
			for {
				args, ok := nums(2)
				if !ok {
					return false
				}
				x, y := args[0], args[1]
				if cmd == 'l' {
					x, y = cx+x, cy+y
				}
				cx, cy = x, y
				fmt.Fprintf(buf, "%s %s l\n", fx(cx), fy(cy))
				if !hasMoreArgs() {
					break
				}
			}
		case 'C', 'c':
			for {
				args, ok := nums(6)
				if !ok {
					return false
				}
				x1, y1, x2, y2, x, y := args[0], args[1], args[2], args[3], args[4], args[5]
				if cmd == 'c' {
					x1, y1 = cx+x1, cy+y1
					x2, y2 = cx+x2, cy+y2
					x, y = cx+x, cy+y
				}
				fmt.Fprintf(buf, "%s %s %s %s %s %s c\n", fx(x1), fy(y1), fx(x2), fy(y2), fx(x), fy(y))
				cx, cy = x, y
				if !hasMoreArgs() {
					break
				}
			}
		case 'Q', 'q':
			for {
				args, ok := nums(4)
				if !ok {
					return false
				}
				qx, qy, x, y := args[0], args[1], args[2], args[3]
				if cmd == 'q' {
					qx, qy = cx+qx, cy+qy
					x, y = cx+x, cy+y
				}
				cp1x, cp1y, cp2x, cp2y := quadToCubic(cx, cy, qx, qy, x, y)
				fmt.Fprintf(buf, "%s %s %s %s %s %s c\n", fx(cp1x), fy(cp1y), fx(cp2x), fy(cp2y), fx(x), fy(y))
				cx, cy = x, y
				if !hasMoreArgs() {
					break
				}
			}
		case 'Z', 'z':
			buf.WriteString("h\n")
			cx, cy = sx, sy
		default:
			// A, S, T, H, V — explicitly unsupported.
			return false
		}
	}
	return true
}

// quadToCubic degree-elevates a quadratic Bezier (p0, q, p1) into the
// cubic control points cp1, cp2 that trace the identical curve (§4.4):
// cp1 = P0 + 2/3(Q-P0), cp2 = P1 + 2/3(Q-P1).
func quadToCubic(p0x, p0y, qx, qy, p1x, p1y float64) (cp1x, cp1y, cp2x, cp2y float64) {
	const twoThirds = 2.0 / 3.0
	cp1x = p0x + twoThirds*(qx-p0x)
	cp1y = p0y + twoThirds*(qy-p0y)
	cp2x = p1x + twoThirds*(qx-p1x)
	cp2y = p1y + twoThirds*(qy-p1y)
	return
}

// fixed4 formats v with fixed 4-decimal precision (§4.4, §9).
func fixed4(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', 4, 64)
}
