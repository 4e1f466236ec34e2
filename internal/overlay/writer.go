// Package overlay implements the Overlay Writer (§4.6): per page, it
// builds a content stream of white-fill + glyph-draw operators for every
// recognised box and appends it to the page's Contents array, registering
// the Type 3 font in the page's Resources.
//
// The Contents/Resources widening here is grounded on
// other_examples/82bdfd30_platinummonkey-rmapi__rmconvert-ocr_pdf.go.go's
// appendTextStreamToPage/ensureHelveticaFont: match on the current value
// (nil | IndirectRef | Array, resp. nil | Dict | IndirectRef) and widen to
// an Array/Dict as needed.
package overlay

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/vectorscan/vectorscan/internal/core"
	"github.com/vectorscan/vectorscan/internal/type3"
)

// Write reads inputPath, appends an overlay stream to every page that has
// at least one recognised box, and writes the mutated PDF to outputPath.
// It opens its own PDF context; callers that need the font assembled
// against the *same* object graph (so CharProcs/font indirect references
// land in the file actually written) should use Apply with a context they
// opened and will write themselves — see internal/pipeline.
func Write(inputPath, outputPath string, pages []*core.PageFrame, font *type3.Font) error {
	ctx, err := api.ReadContextFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	if err := Apply(ctx, pages, font); err != nil {
		return err
	}
	if err := api.WriteContextFile(ctx, outputPath); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

// Apply appends overlay streams for pages into an already-opened PDF
// context. The caller owns reading and writing the context; this lets the
// font's indirect objects (registered by type3.Assemble against the same
// ctx.XRefTable) and the overlay's object-graph edits land in one
// consistent object graph.
func Apply(ctx *model.Context, pages []*core.PageFrame, font *type3.Font) error {
	for _, page := range pages { // page-index ascending (§5)
		stream := buildOverlayStream(page, font)
		if stream == nil {
			continue // boundary behaviour: no recognised boxes, no overlay (§8)
		}
		if err := appendOverlayToPage(ctx.XRefTable, page.Index+1, stream, font); err != nil {
			return fmt.Errorf("appending overlay to page %d: %w", page.Index+1, err)
		}
	}
	return nil
}

// buildOverlayStream builds one page's content stream (§4.6). It returns
// nil if the page has no box whose codepoint is present in the font map
// (no overlay and no font-resource registration, §8 boundary behaviour).
func buildOverlayStream(page *core.PageFrame, font *type3.Font) []byte {
	var buf strings.Builder
	wrote := false

	for _, box := range page.CharBoxes { // insertion order from the extractor (§5)
		code, ok := font.CodeOf[box.Char]
		if !ok {
			continue // raster layer shows through unmodified (§4.6)
		}

		xPt := page.PtFromPx(float64(box.X1))
		yPt := page.HeightPt - page.PtFromPx(float64(box.Y2))
		wPt := page.PtFromPx(float64(box.X2 - box.X1))
		hPt := page.PtFromPx(float64(box.Y2 - box.Y1))
		if wPt <= 0 || hPt <= 0 {
			continue // degenerate box, skipped (§4.6)
		}

		if !wrote {
			buf.WriteString("q\n")
			wrote = true
		}

		fmt.Fprintf(&buf, "1 g  %.4f %.4f %.4f %.4f re f\n", xPt, yPt, wPt, hPt)
		fmt.Fprintf(&buf, "0 g  BT  /%s %.4f Tf  1 0 0 1 %.4f %.4f Tm  (%s) Tj  ET\n",
			font.Resource, hPt, xPt, yPt, octalEscape(code))
	}

	if !wrote {
		return nil
	}
	buf.WriteString("Q\n")
	return []byte(buf.String())
}

// octalEscape renders a byte code as a PDF literal-string octal escape
// \NNN, safe for any byte including parentheses and backslash (§4.6).
func octalEscape(b byte) string {
	return fmt.Sprintf("\\%03o", b)
}

// appendOverlayToPage widens the page's Contents to include the new
// stream and registers the Type 3 font under its resource name in the
// page's Resources./Font, creating either as needed.
func appendOverlayToPage(xref *model.XRefTable, pageNr int, content []byte, font *type3.Font) error {
	pageDict, pageIndRef, _, err := xref.PageDict(pageNr, false)
	if err != nil {
		return err
	}

	if err := registerFont(xref, pageDict, font); err != nil {
		return err
	}

	sd := types.NewStreamDict(types.Dict{}, int64(len(content)), nil, nil, nil)
	sd.Content = content
	sd.Raw = content

	newIR, err := xref.IndRefForNewObject(sd)
	if err != nil {
		return err
	}

	switch c := pageDict["Contents"].(type) {
	case nil:
		pageDict["Contents"] = *newIR
	case types.IndirectRef:
		pageDict["Contents"] = types.Array{c, *newIR}
	case types.Array:
		pageDict["Contents"] = append(c, *newIR)
	default:
		return fmt.Errorf("unsupported Contents type: %T", c)
	}

	objNr := pageIndRef.ObjectNumber.Value()
	if entry, found := xref.Table[objNr]; found {
		entry.Object = pageDict
	} else {
		return fmt.Errorf("page object %d not found in xref table", objNr)
	}
	return nil
}

func registerFont(xref *model.XRefTable, pageDict types.Dict, font *type3.Font) error {
	var resDict types.Dict
	switch r := pageDict["Resources"].(type) {
	case nil:
		resDict = types.Dict{}
		pageDict["Resources"] = resDict
	case types.Dict:
		resDict = r
	case types.IndirectRef:
		o, err := xref.Dereference(r)
		if err != nil {
			return err
		}
		d, ok := o.(types.Dict)
		if !ok {
			return fmt.Errorf("Resources not a dict: %T", o)
		}
		resDict = d
	default:
		return fmt.Errorf("unsupported Resources type: %T", r)
	}

	var fontDict types.Dict
	switch f := resDict["Font"].(type) {
	case nil:
		fontDict = types.Dict{}
		resDict["Font"] = fontDict
	case types.Dict:
		fontDict = f
	case types.IndirectRef:
		o, err := xref.Dereference(f)
		if err != nil {
			return err
		}
		d, ok := o.(types.Dict)
		if !ok {
			return fmt.Errorf("Font not a dict: %T", o)
		}
		fontDict = d
	default:
		return fmt.Errorf("unsupported Font type: %T", f)
	}

	if _, ok := fontDict[font.Resource]; !ok {
		fontDict[font.Resource] = font.Ref
	}
	return nil
}
