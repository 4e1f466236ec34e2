package ocrengine

import "testing"

func TestParseBoxFormat(t *testing.T) {
	data := []byte("H 10 20 30 50 0\ni 35 20 40 50 0\n\nbad line\n")
	boxes := parseBoxFormat(data)
	if len(boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(boxes))
	}
	if boxes[0].Text != "H" || boxes[0].X1 != 10 || boxes[0].Y2 != 50 {
		t.Errorf("unexpected first box: %+v", boxes[0])
	}
	if boxes[1].Text != "i" || boxes[1].X1 != 35 {
		t.Errorf("unexpected second box: %+v", boxes[1])
	}
}

func TestParseBoxFormatSkipsMalformedLines(t *testing.T) {
	data := []byte("short line\nH notanumber 20 30 50 0\n")
	boxes := parseBoxFormat(data)
	if len(boxes) != 0 {
		t.Errorf("got %d boxes, want 0 for malformed input", len(boxes))
	}
}

func TestNewDefaultsCommandName(t *testing.T) {
	tess := New("")
	if tess.Command != "tesseract" {
		t.Errorf("Command = %q, want tesseract", tess.Command)
	}
}
