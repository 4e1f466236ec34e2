// Command vectorscan is the CLI entry point (§6): it runs a single job
// through internal/pipeline, or — with --watch — runs internal/watch as a
// drop-folder daemon. Flag surface and progress-line style follow the
// teacher's main.go (-i/--input, -o/--output aliasing; --watch;
// --config), generalised from its .note/.mark conversion to vectorscan's
// PDF-in, PDF-out job shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-runewidth"

	"github.com/vectorscan/vectorscan/internal/config"
	"github.com/vectorscan/vectorscan/internal/jobstore"
	"github.com/vectorscan/vectorscan/internal/ocrengine"
	"github.com/vectorscan/vectorscan/internal/pipeline"
	"github.com/vectorscan/vectorscan/internal/watch"
)

func main() {
	var out, configPath, lang, mode, outputType, ocrmypdfPath, tesseractPath string
	var forceOCR, watchMode bool
	var optimize int

	flag.StringVar(&out, "o", "", "Output PDF path")
	flag.StringVar(&out, "out", "", "Output PDF path")
	flag.StringVar(&configPath, "config", "vectorscan.toml", "Path to config file (TOML)")
	flag.StringVar(&lang, "lang", "", "OCR language tag (default from config, normally eng)")
	flag.StringVar(&mode, "mode", "best", "Fallback mode: fast|best")
	flag.BoolVar(&forceOCR, "force-ocr", false, "Force OCRmyPDF to re-OCR even if a text layer exists")
	flag.StringVar(&outputType, "output-type", "pdf", "Fallback output type: pdf|pdfa-2")
	flag.IntVar(&optimize, "optimize", 3, "Fallback optimisation level: 0-3")
	flag.StringVar(&ocrmypdfPath, "ocrmypdf", "", "Path to the ocrmypdf binary (default from config)")
	flag.StringVar(&tesseractPath, "tesseract", "tesseract", "Path to the tesseract binary")
	flag.BoolVar(&watchMode, "watch", false, "Run as a daemon watching [watch] input_dir from config")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	engine := ocrengine.New(tesseractPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nshutting down...")
		cancel()
	}()

	if watchMode {
		if cfg.Watch.InputDir == "" || cfg.Watch.OutputDir == "" {
			fmt.Fprintln(os.Stderr, "error: [watch] input_dir and output_dir must be set in config for --watch mode")
			os.Exit(1)
		}
		jobParams := pipeline.Params{
			Lang: lang, Mode: mode, ForceOCR: forceOCR,
			OutputType: outputType, Optimize: optimize, OCRmyPDFPath: ocrmypdfPath,
		}
		if err := watch.Run(ctx, cfg, engine, jobParams, progressLogger()); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) != 1 || out == "" {
		fmt.Fprintln(os.Stderr, "usage: vectorscan <input.pdf> --out <output.pdf> [--lang eng] [--mode fast|best] [--force-ocr] [--output-type pdf|pdfa-2] [--optimize 0-3]")
		fmt.Fprintln(os.Stderr, "       vectorscan --watch [--config vectorscan.toml]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	input := args[0]

	inputInfo, err := os.Stat(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: input path %q does not exist\n", input)
		os.Exit(1)
	}

	logFile, err := os.Create(out + ".log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating job log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	p := pipeline.Params{
		InputPath: input, OutputPath: out,
		Lang: lang, Mode: mode, ForceOCR: forceOCR,
		OutputType: outputType, Optimize: optimize, OCRmyPDFPath: ocrmypdfPath,
	}
	statusPath := out + ".status.json"

	fmt.Printf("Converting %s -> %s\n", displayPath(input), displayPath(out))
	if err := pipeline.Run(ctx, *cfg, p, engine, logFile); err != nil {
		jobstore.WriteStatus(statusPath, jobstore.Status{State: "error"})
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	inputBytes := inputInfo.Size()
	var outputBytes int64
	if outInfo, err := os.Stat(out); err == nil {
		outputBytes = outInfo.Size()
	}
	savingsBytes := inputBytes - outputBytes
	savingsPct := jobstore.SavingsPct(inputBytes, outputBytes)
	jobstore.WriteStatus(statusPath, jobstore.Status{
		State:        "done",
		InputBytes:   &inputBytes,
		OutputBytes:  &outputBytes,
		SavingsBytes: &savingsBytes,
		SavingsPct:   &savingsPct,
	})
	fmt.Println("done.")
}

func progressLogger() func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Printf(format, args...)
	}
}

// displayPath truncates a path for single-line progress output so wide or
// combining runes (e.g. CJK filenames, combining diacritics) never blow
// past a terminal's column width — the concern the teacher's directory
// progress counter never hit because it only ever printed ASCII ".note"
// filenames.
func displayPath(path string) string {
	const maxCols = 60
	if runewidth.StringWidth(path) <= maxCols {
		return path
	}
	return runewidth.Truncate(path, maxCols, "…")
}
