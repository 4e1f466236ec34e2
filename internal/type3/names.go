package type3

import "fmt"

// adobeStandardNames maps printable ASCII to Adobe standard glyph names
// (§4.5), grounded on
// original_source/engine/glyph_pipeline/type3_font.py's _GLYPH_NAMES table.
var adobeStandardNames = map[rune]string{
	' ': "space", '!': "exclam", '"': "quotedbl", '#': "numbersign",
	'$': "dollar", '%': "percent", '&': "ampersand", '\'': "quotesingle",
	'(': "parenleft", ')': "parenright", '*': "asterisk", '+': "plus",
	',': "comma", '-': "hyphen", '.': "period", '/': "slash",
	'0': "zero", '1': "one", '2': "two", '3': "three", '4': "four",
	'5': "five", '6': "six", '7': "seven", '8': "eight", '9': "nine",
	':': "colon", ';': "semicolon", '<': "less", '=': "equal",
	'>': "greater", '?': "question", '@': "at",
	'[': "bracketleft", '\\': "backslash", ']': "bracketright",
	'^': "asciicircum", '_': "underscore", '`': "grave",
	'{': "braceleft", '|': "bar", '}': "braceright", '~': "asciitilde",
}

// GlyphName returns the Adobe standard name for printable ASCII, falling
// through to uniXXXX (uppercase hex codepoint) for everything else (§4.5).
func GlyphName(c rune) string {
	if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
		return string(c)
	}
	if name, ok := adobeStandardNames[c]; ok {
		return name
	}
	return fmt.Sprintf("uni%04X", c)
}

// CharCode folds a codepoint into a single byte code (§4.5):
// ord(c) when ord(c) <= 0xFF; otherwise (ord(c) mod 128) + 128.
func CharCode(c rune) byte {
	if c <= 0xFF {
		return byte(c)
	}
	return byte(c%128) + 128
}
