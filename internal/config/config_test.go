package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Raster.DPI != 300 {
		t.Errorf("default DPI = %d, want 300", cfg.Raster.DPI)
	}
	if cfg.OCR.Lang != "eng" {
		t.Errorf("default lang = %q, want eng", cfg.OCR.Lang)
	}
	if cfg.Tracer.CornerThreshold != 60 {
		t.Errorf("default corner threshold = %v, want 60", cfg.Tracer.CornerThreshold)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectorscan.toml")
	content := `
[raster]
dpi = 600

[ocr]
lang = "fra"

[watch]
input_dir = "/tmp/in"
output_dir = "/tmp/out"
poll_interval = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Raster.DPI != 600 {
		t.Errorf("DPI = %d, want 600", cfg.Raster.DPI)
	}
	if cfg.OCR.Lang != "fra" {
		t.Errorf("lang = %q, want fra", cfg.OCR.Lang)
	}
	if cfg.Watch.PollDuration().Seconds() != 10 {
		t.Errorf("poll duration = %v, want 10s", cfg.Watch.PollDuration())
	}
	// Untouched sections keep their defaults.
	if cfg.Tracer.FilterSpeckle != 2 {
		t.Errorf("filter speckle = %d, want default 2", cfg.Tracer.FilterSpeckle)
	}
}
