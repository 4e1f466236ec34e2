package type3

import (
	"errors"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/vectorscan/vectorscan/internal/core"
	"github.com/vectorscan/vectorscan/internal/vserrors"
)

type fakeRegistry struct {
	next    int
	objects []types.Object
}

func (f *fakeRegistry) IndRefForNewObject(obj types.Object) (*types.IndirectRef, error) {
	f.next++
	f.objects = append(f.objects, obj)
	return types.NewIndirectRef(f.next, 0), nil
}

func TestAssembleEmptyGlyphsFails(t *testing.T) {
	_, err := Assemble(&fakeRegistry{}, nil)
	if !errors.Is(err, vserrors.ErrNoGlyphs) {
		t.Fatalf("err = %v, want ErrNoGlyphs", err)
	}
}

func TestAssembleWidthsLengthAndFirstLastChar(t *testing.T) {
	glyphs := map[rune]*core.VectorGlyph{
		'H': {Char: 'H', AdvanceWidth: 720, PathOps: "0 0 m h f"},
		'i': {Char: 'i', AdvanceWidth: 240, PathOps: "0 0 m h f"},
	}

	reg := &fakeRegistry{}
	font, err := Assemble(reg, glyphs)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// 'H' = 0x48 = 72, 'i' = 0x69 = 105
	if font.CodeOf['H'] != 72 || font.CodeOf['i'] != 105 {
		t.Fatalf("unexpected codes: %+v", font.CodeOf)
	}

	// The font dictionary is the last object registered.
	fontDict, ok := reg.objects[len(reg.objects)-1].(types.Dict)
	if !ok {
		t.Fatalf("last registered object is %T, want types.Dict", reg.objects[len(reg.objects)-1])
	}
	if fontDict["FirstChar"] != types.Integer(72) || fontDict["LastChar"] != types.Integer(105) {
		t.Errorf("FirstChar/LastChar = %v/%v, want 72/105", fontDict["FirstChar"], fontDict["LastChar"])
	}
	if widths, _ := fontDict["Widths"].(types.Array); len(widths) != 105-72+1 {
		t.Errorf("len(Widths) = %d, want 34", len(widths))
	}
	if font.Resource == "" {
		t.Error("expected a non-empty resource name")
	}
}

func TestBuildDifferencesSweepsGapsAndRuns(t *testing.T) {
	codeToName := map[byte]string{72: "H", 105: "i"}
	diffs := buildDifferences(codeToName, 72, 105)

	want := types.Array{types.Integer(72), types.Name("H"), types.Integer(105), types.Name("i")}
	if len(diffs) != len(want) {
		t.Fatalf("got %v, want %v", diffs, want)
	}
	for i := range want {
		if diffs[i] != want[i] {
			t.Errorf("diffs[%d] = %v, want %v", i, diffs[i], want[i])
		}
	}
}

func TestCodeRange(t *testing.T) {
	first, last := codeRange(map[byte]string{72: "H", 105: "i"})
	if first != 72 || last != 105 {
		t.Errorf("codeRange = (%d,%d), want (72,105)", first, last)
	}
}
