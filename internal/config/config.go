// Package config loads vectorscan.toml, the per-stage tunables for the
// rasteriser, the OCR box extractor, the vectoriser's tracer cascade, the
// OCRmyPDF fallback, and drop-folder watch mode.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// RasterConfig controls the Page Rasteriser (§4.1).
type RasterConfig struct {
	DPI int `toml:"dpi"`
}

// OCRConfig controls the Character Box Extractor (§4.2).
type OCRConfig struct {
	Lang string `toml:"lang"`
}

// TracerConfig controls the tracer cascade (§4.4): the in-process tracer's
// trace parameters and the external tracer command.
type TracerConfig struct {
	CornerThreshold float64 `toml:"corner_threshold"`
	LengthThreshold float64 `toml:"length_threshold"`
	FilterSpeckle   int     `toml:"filter_speckle"`
	TurdSize        int     `toml:"turd_size"`
	ExternalTracer  string  `toml:"external_tracer"` // e.g. "potrace"
}

// FallbackConfig points at the OCRmyPDF binary and sets its --jobs count
// (§4.7).
type FallbackConfig struct {
	OCRmyPDFPath string `toml:"ocrmypdf_path"`
	Jobs         int    `toml:"jobs"`
}

// WatchConfig configures drop-folder watch mode, generalised from the
// teacher's WatchConfig (supernote_private_cloud/webdav inputs) to a single
// plain input directory (watched recursively) holding raster PDFs to
// auto-convert.
type WatchConfig struct {
	InputDir     string `toml:"input_dir"`
	OutputDir    string `toml:"output_dir"`
	PollInterval int    `toml:"poll_interval"` // seconds, 0 = default (5s)
}

func (w WatchConfig) PollDuration() time.Duration {
	if w.PollInterval > 0 {
		return time.Duration(w.PollInterval) * time.Second
	}
	return 5 * time.Second
}

type Config struct {
	Raster   RasterConfig   `toml:"raster"`
	OCR      OCRConfig      `toml:"ocr"`
	Tracer   TracerConfig   `toml:"tracer"`
	Fallback FallbackConfig `toml:"fallback"`
	Watch    WatchConfig    `toml:"watch"`
}

func defaultConfig() *Config {
	return &Config{
		Raster: RasterConfig{DPI: 300},
		OCR:    OCRConfig{Lang: "eng"},
		Tracer: TracerConfig{
			CornerThreshold: 60,
			LengthThreshold: 4.0,
			FilterSpeckle:   2,
			TurdSize:        2,
			ExternalTracer:  "potrace",
		},
		Fallback: FallbackConfig{
			OCRmyPDFPath: "ocrmypdf",
			Jobs:         2,
		},
	}
}

// LoadConfig reads path and decodes it over built-in defaults. A missing
// file is not an error — it simply yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
