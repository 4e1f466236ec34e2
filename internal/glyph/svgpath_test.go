package glyph

import (
	"math"
	"strings"
	"testing"
)

func TestTranscodePathsSimpleSquare(t *testing.T) {
	svg := `<svg><path d="M10 10 L20 10 L20 20 L10 20 Z"/></svg>`
	ops, ok := TranscodePaths(svg, 20)
	if !ok {
		t.Fatal("expected ok=true")
	}
	// s = 1000/20 = 50: x = 10*50, y = (20-10)*50.
	if !strings.HasPrefix(strings.TrimSpace(ops), "500.0000 500.0000 m") {
		t.Errorf("unexpected prefix: %q", ops)
	}
	if !strings.HasSuffix(ops, "f") {
		t.Errorf("ops must end with f: %q", ops)
	}
	if !strings.Contains(ops, "h\n") {
		t.Errorf("Z must emit h: %q", ops)
	}
}

func TestTranscodePathsRejectsArcCommand(t *testing.T) {
	svg := `<svg><path d="M10 10 A5 5 0 0 1 20 20"/></svg>`
	_, ok := TranscodePaths(svg, 20)
	if ok {
		t.Fatal("expected ok=false for unsupported arc command")
	}
}

func TestTranscodePathsNoPathsYieldsFalse(t *testing.T) {
	_, ok := TranscodePaths(`<svg></svg>`, 20)
	if ok {
		t.Fatal("expected ok=false for svg with no paths")
	}
}

func TestTranscodePathsZeroHeightYieldsFalse(t *testing.T) {
	_, ok := TranscodePaths(`<svg><path d="M0 0 L1 1 Z"/></svg>`, 0)
	if ok {
		t.Fatal("expected ok=false for zero height")
	}
}

func TestQuadToCubicMatchesQuadraticAtHalf(t *testing.T) {
	p0x, p0y := 0.0, 0.0
	qx, qy := 5.0, 10.0
	p1x, p1y := 10.0, 0.0

	cp1x, cp1y, cp2x, cp2y := quadToCubic(p0x, p0y, qx, qy, p1x, p1y)

	// Quadratic Bezier at t: B(t) = (1-t)^2 P0 + 2(1-t)t Q + t^2 P1.
	quadAt := func(t float64) (float64, float64) {
		u := 1 - t
		x := u*u*p0x + 2*u*t*qx + t*t*p1x
		y := u*u*p0y + 2*u*t*qy + t*t*p1y
		return x, y
	}
	// Cubic Bezier at t: B(t) = (1-t)^3 P0 + 3(1-t)^2 t CP1 + 3(1-t) t^2 CP2 + t^3 P1.
	cubicAt := func(t float64) (float64, float64) {
		u := 1 - t
		x := u*u*u*p0x + 3*u*u*t*cp1x + 3*u*t*t*cp2x + t*t*t*p1x
		y := u*u*u*p0y + 3*u*u*t*cp1y + 3*u*t*t*cp2y + t*t*t*p1y
		return x, y
	}

	qx05, qy05 := quadAt(0.5)
	cx05, cy05 := cubicAt(0.5)

	if math.Abs(qx05-cx05) > 1e-9 || math.Abs(qy05-cy05) > 1e-9 {
		t.Errorf("mismatch at t=0.5: quad=(%v,%v) cubic=(%v,%v)", qx05, qy05, cx05, cy05)
	}
}

func TestFixed4RoundsToFourDecimals(t *testing.T) {
	if got := fixed4(1.0 / 3.0); got != "0.3333" {
		t.Errorf("fixed4(1/3) = %q, want 0.3333", got)
	}
}
