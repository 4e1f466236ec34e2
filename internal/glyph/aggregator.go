// Package glyph implements the Glyph Aggregator and Vectoriser (§4.3,
// §4.4): grouping CharBoxes by codepoint across pages, picking a
// representative, and turning its bitmap crop into a VectorGlyph.
package glyph

import (
	"sort"

	"github.com/vectorscan/vectorscan/internal/core"
)

// Aggregate partitions every CharBox across pages by codepoint and returns
// one GlyphGroup per codepoint present, ordered by codepoint ascending
// (Unicode order) so that downstream Widths/Differences construction is
// deterministic regardless of extraction order (§5).
func Aggregate(pages []*core.PageFrame) []core.GlyphGroup {
	byChar := make(map[rune][]core.BoxRef)
	var order []rune

	for _, page := range pages {
		for i := range page.CharBoxes {
			c := page.CharBoxes[i].Char
			if _, seen := byChar[c]; !seen {
				order = append(order, c)
			}
			byChar[c] = append(byChar[c], core.BoxRef{Page: page, BoxIndex: i})
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	groups := make([]core.GlyphGroup, 0, len(order))
	for _, c := range order {
		groups = append(groups, core.GlyphGroup{Char: c, Boxes: byChar[c]})
	}
	return groups
}
