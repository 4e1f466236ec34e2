// Package type3 implements the Type 3 Font Assembler (§4.5): it turns a
// codepoint→VectorGlyph map into an indirect Type 3 font PDF object with a
// self-consistent CharProcs/Widths/Encoding.Differences triple.
package type3

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/vectorscan/vectorscan/internal/core"
	"github.com/vectorscan/vectorscan/internal/vserrors"
)

// em is the nominal glyph-space em height (§3, §4.5).
const em = 1000.0

// ObjectRegistry is the PDF object arena's factory (§9 "arena-owned
// indirect objects"): the only way new PDF objects are created. pdfcpu's
// *model.XRefTable satisfies this through its own IndRefForNewObject
// method — see internal/pipeline, which calls Assemble with ctx.XRefTable.
type ObjectRegistry interface {
	IndRefForNewObject(obj types.Object) (*types.IndirectRef, error)
}

// Font is the assembled Type 3 font: its indirect PDF object reference
// plus the char_code mapping the Overlay Writer needs to emit Tj strings.
type Font struct {
	Ref      types.IndirectRef
	CodeOf   map[rune]byte // codepoints present in the font, i.e. reachable via Widths/a CharProc
	Resource string        // stable resource name, e.g. "VF1"
}

// Assemble builds the Type 3 font dictionary and registers every CharProc
// stream as its own indirect object via xref's factory (§9 "arena-owned
// indirect objects"). Fails with ErrNoGlyphs if glyphs is empty (§4.5
// Failure).
func Assemble(reg ObjectRegistry, glyphs map[rune]*core.VectorGlyph) (*Font, error) {
	if len(glyphs) == 0 {
		return nil, vserrors.ErrNoGlyphs
	}

	chars := make([]rune, 0, len(glyphs))
	for c := range glyphs {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] }) // §5 determinism

	charProcs := types.Dict{}
	codeToName := map[byte]string{}
	codeToChar := map[rune]byte{}
	codeToAdvance := map[byte]float64{}

	for _, c := range chars {
		vg := glyphs[c]
		name := GlyphName(c)
		code := CharCode(c)

		stream := fmt.Sprintf("%.3f 0 0 0 %.3f %.3f d1\n%s\n", vg.AdvanceWidth, vg.AdvanceWidth, em, vg.PathOps)
		content := []byte(stream)
		sd := types.NewStreamDict(types.Dict{}, int64(len(content)), nil, nil, nil)
		sd.Content = content
		sd.Raw = content

		ir, err := reg.IndRefForNewObject(sd)
		if err != nil {
			return nil, fmt.Errorf("registering CharProc for %q: %w", c, err)
		}
		charProcs[name] = *ir

		// Last-writer-wins on Differences: ascending codepoint order means
		// the highest codepoint folding to this byte wins (§4.5, §9 Open
		// Questions — collision resolution is unspecified beyond "tests
		// must detect it").
		codeToName[code] = name
		codeToChar[c] = code
		codeToAdvance[code] = vg.AdvanceWidth
	}

	firstChar, lastChar := codeRange(codeToName)
	widths := make(types.Array, lastChar-firstChar+1)
	for code := firstChar; code <= lastChar; code++ {
		widths[code-firstChar] = types.Float(codeToAdvance[byte(code)])
	}

	diffs := buildDifferences(codeToName, firstChar, lastChar)

	fontDict := types.Dict{
		"Type":       types.Name("Font"),
		"Subtype":    types.Name("Type3"),
		"FontBBox":   types.Array{types.Float(0), types.Float(0), types.Float(em), types.Float(em)},
		"FontMatrix": types.Array{types.Float(0.001), types.Float(0), types.Float(0), types.Float(0.001), types.Float(0), types.Float(0)},
		"FirstChar":  types.Integer(firstChar),
		"LastChar":   types.Integer(lastChar),
		"Widths":     widths,
		"Encoding": types.Dict{
			"Differences": diffs,
		},
		"CharProcs": charProcs,
		"Resources": types.Dict{},
	}

	ref, err := reg.IndRefForNewObject(fontDict)
	if err != nil {
		return nil, fmt.Errorf("registering Type3 font dict: %w", err)
	}

	return &Font{Ref: *ref, CodeOf: codeToChar, Resource: "VF1"}, nil
}

func codeRange(codeToName map[byte]string) (first, last int) {
	first, last = 255, 0
	for code := range codeToName {
		if int(code) < first {
			first = int(code)
		}
		if int(code) > last {
			last = int(code)
		}
	}
	return first, last
}

// buildDifferences sweeps codes [firstChar, lastChar] emitting the code
// integer whenever a new run starts (first code, or a gap), then each
// present code's glyph Name (§4.5).
func buildDifferences(codeToName map[byte]string, firstChar, lastChar int) types.Array {
	var diffs types.Array
	runOpen := false
	for code := firstChar; code <= lastChar; code++ {
		name, ok := codeToName[byte(code)]
		if !ok {
			runOpen = false
			continue
		}
		if !runOpen {
			diffs = append(diffs, types.Integer(code))
			runOpen = true
		}
		diffs = append(diffs, types.Name(name))
	}
	return diffs
}
