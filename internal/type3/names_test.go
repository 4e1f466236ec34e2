package type3

import "testing"

func TestGlyphNameASCII(t *testing.T) {
	cases := map[rune]string{
		'A': "A", 'z': "z", ' ': "space", '"': "quotedbl", '&': "ampersand",
	}
	for c, want := range cases {
		if got := GlyphName(c); got != want {
			t.Errorf("GlyphName(%q) = %q, want %q", c, got, want)
		}
	}
}

func TestGlyphNameFallsBackToUniHex(t *testing.T) {
	if got := GlyphName('é'); got != "uni00E9" {
		t.Errorf("GlyphName('é') = %q, want uni00E9", got)
	}
	if got := GlyphName('中'); got != "uni4E2D" {
		t.Errorf("GlyphName('中') = %q, want uni4E2D", got)
	}
}

func TestCharCodeWithinByteRange(t *testing.T) {
	if got := CharCode('A'); got != 65 {
		t.Errorf("CharCode('A') = %d, want 65", got)
	}
	if got := CharCode(0xFF); got != 0xFF {
		t.Errorf("CharCode(0xFF) = %d, want 0xFF", got)
	}
}

func TestCharCodeFoldsAboveByteRange(t *testing.T) {
	// ord > 0xFF: (ord mod 128) + 128
	c := rune(0x4E2D) // 中
	want := byte(0x4E2D%128) + 128
	if got := CharCode(c); got != want {
		t.Errorf("CharCode(0x4E2D) = %d, want %d", got, want)
	}
}

func TestCharCodeCollision(t *testing.T) {
	// Two distinct codepoints > 0xFF can fold to the same byte code
	// (§9 Open Questions) — find such a pair and assert the collision.
	a := rune(0x100 + 5)
	b := a + 128
	if CharCode(a) != CharCode(b) {
		t.Fatalf("expected %U and %U to collide on char_code, got %d != %d", a, b, CharCode(a), CharCode(b))
	}
}
