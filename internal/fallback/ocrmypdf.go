// Package fallback invokes the external OCRmyPDF tool as the terminal
// fallback path (§4.7), grounded on
// original_source/engine/clearscan_engine.py: command-line flag assembly
// driven by mode/force-ocr, and the two-stage degradation retry when a
// dependency tool (page cleaner, quantiser) is missing.
package fallback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vectorscan/vectorscan/internal/vserrors"
)

// Params are the job parameters forwarded to OCRmyPDF (§6 CLI surface).
type Params struct {
	Input      string
	Output     string
	Lang       string
	Mode       string // "fast" | "best"
	ForceOCR   bool
	OutputType string // "pdf" | "pdfa-2"
	Optimize   int    // 0..3
	Jobs       int
}

// Run invokes OCRmyPDF with the flags assembled from p, applying the
// two-stage degradation retry on missing dependency tools (§4.7, §7
// DegradedDependency). log receives the full command line and the child
// process's combined stdout/stderr for every attempt, mirroring
// original_source/app/main.py's run_job piping stdout/stderr into job.log.
func Run(ctx context.Context, ocrmypdfPath string, p Params, log io.Writer) error {
	clean := true
	optimize := p.Optimize

	for attempt := 0; attempt < 3; attempt++ {
		args := buildArgs(p, clean, optimize)
		out, err := runCapture(ctx, ocrmypdfPath, args, log)
		if err == nil {
			return nil
		}

		lower := strings.ToLower(out)
		if clean && mentionsMissingTool(lower, "unpaper") {
			clean = false
			continue
		}
		if mentionsMissingTool(lower, "pngquant") {
			optimize = 1
			continue
		}
		return fmt.Errorf("%w: ocrmypdf failed: %v", vserrors.ErrOutputWriteFailed, err)
	}
	return fmt.Errorf("%w: ocrmypdf failed after degradation retries", vserrors.ErrOutputWriteFailed)
}

func buildArgs(p Params, clean bool, optimize int) []string {
	args := []string{"--optimize", strconv.Itoa(optimize), "--jobs", jobsOrDefault(p.Jobs), "--language", p.Lang}

	if !p.ForceOCR {
		args = append(args, "--skip-text")
	}
	if p.Mode == "best" {
		args = append(args, "--deskew", "--rotate-pages")
		if clean {
			args = append(args, "--clean")
		}
	}
	args = append(args, "--output-type", p.OutputType, p.Input, p.Output)
	return args
}

func jobsOrDefault(n int) string {
	if n <= 0 {
		n = 2
	}
	return strconv.Itoa(n)
}

// mentionsMissingTool reports whether lowercased combined output mentions
// tool as missing, per the three phrasings clearscan_engine.py checks:
// "was not found", "could not find program", "could not be executed".
func mentionsMissingTool(lower, tool string) bool {
	if !strings.Contains(lower, tool) {
		return false
	}
	return strings.Contains(lower, "was not found") ||
		strings.Contains(lower, "could not find program") ||
		strings.Contains(lower, "could not be executed")
}

func runCapture(ctx context.Context, ocrmypdfPath string, args []string, log io.Writer) (string, error) {
	cmd := exec.CommandContext(ctx, ocrmypdfPath, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	fmt.Fprintf(log, "+ %s %s\n", ocrmypdfPath, strings.Join(args, " "))
	err := cmd.Run()
	log.Write(combined.Bytes())
	return combined.String(), err
}
