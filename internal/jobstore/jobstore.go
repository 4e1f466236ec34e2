// Package jobstore implements the on-disk job-store contract (§6) that
// the out-of-scope HTTP upload service and this core share: job
// directory layout, filename sanitisation, and status/metadata files.
// Grounded on original_source/app/main.py (job_paths, safe_filename,
// optimised_name, write_status).
package jobstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Paths is the <jobs_root>/<job_id>/ layout (§6).
type Paths struct {
	Base   string
	Input  string
	OutDir string
	Output string
	Log    string
	Meta   string
	Status string
}

// JobPaths computes the standard layout for a job under jobsRoot.
func JobPaths(jobsRoot, jobID string) Paths {
	base := filepath.Join(jobsRoot, jobID)
	outDir := filepath.Join(base, "out")
	return Paths{
		Base:   base,
		Input:  filepath.Join(base, "input.pdf"),
		OutDir: outDir,
		Output: filepath.Join(outDir, "output.pdf"),
		Log:    filepath.Join(base, "job.log"),
		Meta:   filepath.Join(base, "meta.json"),
		Status: filepath.Join(base, "status.json"),
	}
}

var reUnsafeChars = regexp.MustCompile(`[^A-Za-z0-9._ -]`)

const maxFilenameLen = 180

// SafeFilename strips path separators, forces a .pdf suffix, and
// restricts the remaining characters to [A-Za-z0-9._ -], truncated to
// 180 characters — scenario 5 in §8 (a filename containing path
// separators and spaces).
func SafeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".pdf"
	name = reUnsafeChars.ReplaceAllString(name, "_")
	if len(name) > maxFilenameLen {
		ext := ".pdf"
		name = name[:maxFilenameLen-len(ext)] + ext
	}
	return name
}

// OptimisedName strips the ".pdf" suffix from original and appends
// "-optimised.pdf" (§8 scenario 5).
func OptimisedName(original string) string {
	stem := strings.TrimSuffix(original, filepath.Ext(original))
	return stem + "-optimised.pdf"
}

// Meta is meta.json's shape (§6).
type Meta struct {
	Filename   string    `json:"filename"`
	Created    time.Time `json:"created"`
	Lang       string    `json:"lang"`
	Mode       string    `json:"mode"`
	ForceOCR   bool      `json:"force_ocr"`
	OutputType string    `json:"output_type"`
	Optimize   int       `json:"optimize"`
	InputBytes int64     `json:"input_bytes"`
}

// Status is status.json's shape (§6). Pointer fields are omitted from
// the JSON document when unset, matching the optional `?` fields in the
// spec's layout table.
type Status struct {
	State        string   `json:"state"` // queued|running|done|error
	Ts           string   `json:"ts"`
	InputBytes   *int64   `json:"input_bytes,omitempty"`
	OutputBytes  *int64   `json:"output_bytes,omitempty"`
	SavingsBytes *int64   `json:"savings_bytes,omitempty"`
	SavingsPct   *float64 `json:"savings_pct,omitempty"`
	ExitCode     *int     `json:"exit_code,omitempty"`
}

// SavingsPct computes round((inputBytes-outputBytes)/inputBytes*100, 2)
// (§6). Returns 0 if inputBytes is 0 to avoid division by zero.
func SavingsPct(inputBytes, outputBytes int64) float64 {
	if inputBytes == 0 {
		return 0
	}
	pct := float64(inputBytes-outputBytes) / float64(inputBytes) * 100
	return roundTo2(pct)
}

func roundTo2(v float64) float64 {
	return float64(int64(v*100+sign(v)*0.5)) / 100
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// WriteMeta writes m as meta.json at path.
func WriteMeta(path string, m Meta) error {
	return writeJSON(path, m)
}

// WriteStatus writes s as status.json at path, stamping Ts if unset.
func WriteStatus(path string, s Status) error {
	if s.Ts == "" {
		s.Ts = time.Now().UTC().Format(time.RFC3339)
	}
	return writeJSON(path, s)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// EnsureJobDirs creates the job's base and out directories.
func EnsureJobDirs(p Paths) error {
	if err := os.MkdirAll(p.Base, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(p.OutDir, 0o755)
}
