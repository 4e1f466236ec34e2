// Package ocrengine provides the one concrete ocrbox.Engine this repo
// ships: a Tesseract CLI adapter. The OCR engine itself is out of scope
// per spec.md §1 ("consumed as a black-box box-extractor") — this is the
// thin shim that makes that black box reachable from the CLI, grounded on
// original_source/engine/glyph_pipeline/extractor.py's
// extract_char_boxes, which drives pytesseract.image_to_boxes with
// "--oem 0" (legacy) first and "--oem 1" (LSTM) as the fallback.
package ocrengine

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vectorscan/vectorscan/internal/ocrbox"
)

// Tesseract shells out to the `tesseract` binary for both cascade members
// (§4.2): ExtractLegacy uses `--oem 0` box output, ExtractNeural uses
// `--oem 1` hOCR output.
type Tesseract struct {
	Command string // e.g. "tesseract"
}

func New(command string) *Tesseract {
	if command == "" {
		command = "tesseract"
	}
	return &Tesseract{Command: command}
}

var _ ocrbox.Engine = (*Tesseract)(nil)

// ExtractLegacy runs Tesseract's legacy engine with "makebox" output, a
// line-per-character format ("char x1 y1 x2 y2 page") in Tesseract's
// native bottom-left-origin pixel frame — the exact shape
// extract_char_boxes parses out of pytesseract.image_to_boxes.
func (t *Tesseract) ExtractLegacy(img image.Image, lang string) ([]ocrbox.RawBox, error) {
	out, err := t.run(img, lang, "0", "makebox")
	if err != nil {
		return nil, err
	}
	return parseBoxFormat(out), nil
}

// ExtractNeural runs Tesseract's LSTM engine with hOCR output.
func (t *Tesseract) ExtractNeural(img image.Image, lang string) ([]byte, error) {
	return t.run(img, lang, "1", "hocr")
}

func (t *Tesseract) run(img image.Image, lang, oem, configName string) ([]byte, error) {
	if _, err := exec.LookPath(t.Command); err != nil {
		return nil, fmt.Errorf("tesseract not found: %w", err)
	}

	f, err := os.CreateTemp("", "vectorscan-ocr-*.png")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	defer os.Remove(path)

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	cmd := exec.Command(t.Command, path, "stdout", "-l", lang, "--oem", oem, "--psm", "6", configName)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract: %v: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// parseBoxFormat parses Tesseract's .box line format: "char x1 y1 x2 y2
// page", one character per line, coordinates in Tesseract's
// bottom-left-origin pixel frame.
func parseBoxFormat(data []byte) []ocrbox.RawBox {
	var boxes []ocrbox.RawBox
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 {
			continue
		}
		x1, err1 := strconv.Atoi(fields[1])
		y1, err2 := strconv.Atoi(fields[2])
		x2, err3 := strconv.Atoi(fields[3])
		y2, err4 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		boxes = append(boxes, ocrbox.RawBox{
			Text: fields[0],
			X1:   x1, Y1: y1, X2: x2, Y2: y2,
		})
	}
	return boxes
}
