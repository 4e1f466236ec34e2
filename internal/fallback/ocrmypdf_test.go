package fallback

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestBuildArgsSkipTextUnlessForceOCR(t *testing.T) {
	args := buildArgs(Params{Lang: "eng", Mode: "fast", OutputType: "pdf", Optimize: 3, Input: "in.pdf", Output: "out.pdf"}, true, 3)
	if !contains(args, "--skip-text") {
		t.Errorf("expected --skip-text in %v", args)
	}

	args = buildArgs(Params{Lang: "eng", Mode: "fast", ForceOCR: true, OutputType: "pdf", Optimize: 3, Input: "in.pdf", Output: "out.pdf"}, true, 3)
	if contains(args, "--skip-text") {
		t.Errorf("did not expect --skip-text when ForceOCR, got %v", args)
	}
}

func TestBuildArgsBestModeRequestsDeskewCleanRotate(t *testing.T) {
	args := buildArgs(Params{Mode: "best", OutputType: "pdf", Optimize: 3, Input: "in.pdf", Output: "out.pdf"}, true, 3)
	for _, want := range []string{"--deskew", "--clean", "--rotate-pages"} {
		if !contains(args, want) {
			t.Errorf("expected %s in %v", want, args)
		}
	}
}

func TestBuildArgsDroppedCleanOmitsFlag(t *testing.T) {
	args := buildArgs(Params{Mode: "best", OutputType: "pdf", Optimize: 3, Input: "in.pdf", Output: "out.pdf"}, false, 3)
	if contains(args, "--clean") {
		t.Errorf("did not expect --clean when degraded, got %v", args)
	}
	if !contains(args, "--deskew") {
		t.Errorf("expected --deskew to remain, got %v", args)
	}
}

func TestMentionsMissingTool(t *testing.T) {
	cases := []struct {
		text string
		tool string
		want bool
	}{
		{"unpaper was not found on your system", "unpaper", true},
		{"could not find program pngquant", "pngquant", true},
		{"unpaper could not be executed", "unpaper", true},
		{"unpaper crashed with exit code 1", "unpaper", false},
		{"everything fine", "pngquant", false},
	}
	for _, c := range cases {
		if got := mentionsMissingTool(c.text, c.tool); got != c.want {
			t.Errorf("mentionsMissingTool(%q,%q) = %v, want %v", c.text, c.tool, got, c.want)
		}
	}
}

func TestRunDegradesOnMissingUnpaperThenSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tool script is a POSIX shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-ocrmypdf.sh")
	// First invocation (has --clean) fails mentioning unpaper; any
	// invocation without --clean succeeds.
	content := `#!/bin/sh
if echo "$@" | grep -q -- "--clean"; then
  echo "unpaper was not found on your system" 1>&2
  exit 1
fi
exit 0
`
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	err := Run(context.Background(), script, Params{
		Input: "in.pdf", Output: "out.pdf", Lang: "eng", Mode: "best", OutputType: "pdf", Optimize: 3,
	}, &log)
	if err != nil {
		t.Fatalf("Run: %v, log:\n%s", err, log.String())
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
