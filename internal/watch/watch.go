// Package watch implements drop-folder watch mode: a directory of raster
// PDFs is monitored for arrivals, and each new or changed PDF is run
// through internal/pipeline automatically. Generalised from the teacher's
// watcher.go, which watched directories of ".note"/".mark" files and
// dispatched to its own note/mark converters — here there is a single
// input kind (PDF) and a single converter (internal/pipeline.Run), so the
// classification and lifecycle machinery (pathLocker, debouncer,
// eventLoop, pollLoop) carries over but the companion-file dispatch does
// not.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vectorscan/vectorscan/internal/config"
	"github.com/vectorscan/vectorscan/internal/jobstore"
	"github.com/vectorscan/vectorscan/internal/ocrbox"
	"github.com/vectorscan/vectorscan/internal/pipeline"
)

// job is one candidate conversion: a source PDF and the output path it
// should land at.
type job struct {
	input  string
	output string
}

// pathLocker provides per-path mutual exclusion so two fsnotify events for
// the same output path never race each other into the pipeline.
type pathLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPathLocker() *pathLocker {
	return &pathLocker{locks: make(map[string]*sync.Mutex)}
}

func (pl *pathLocker) Lock(path string) {
	pl.mu.Lock()
	l, ok := pl.locks[path]
	if !ok {
		l = &sync.Mutex{}
		pl.locks[path] = l
	}
	pl.mu.Unlock()
	l.Lock()
}

func (pl *pathLocker) Unlock(path string) {
	pl.mu.Lock()
	l, ok := pl.locks[path]
	if !ok {
		pl.mu.Unlock()
		return
	}
	pl.mu.Unlock()
	l.Unlock()
}

// debouncer coalesces rapid event bursts (common while a file is still
// being written) into a single callback per path.
type debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	delay  time.Duration
	onFire func(path string)
}

func newDebouncer(delay time.Duration, onFire func(path string)) *debouncer {
	return &debouncer{timers: make(map[string]*time.Timer), delay: delay, onFire: onFire}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[path]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		d.onFire(path)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

// Run watches cfg.Watch.InputDir for raster PDFs and runs each one through
// the vectorisation pipeline, writing results under cfg.Watch.OutputDir
// mirroring the input's relative path. It blocks until ctx is cancelled,
// then waits for in-flight conversions before returning.
func Run(ctx context.Context, cfg *config.Config, engine ocrbox.Engine, jobParams pipeline.Params, log func(format string, args ...any)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := watchRecursive(w, cfg.Watch.InputDir); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.Watch.InputDir, err)
	}
	log("watching %s\n", cfg.Watch.InputDir)

	outLock := newPathLocker()
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup

	convert := func(j job) {
		outLock.Lock(j.output)
		defer outLock.Unlock(j.output)
		if recheck := classifyEvent(j.input, cfg); recheck == nil {
			return
		}
		convertJob(ctx, j, cfg, engine, jobParams, log)
	}

	db := newDebouncer(500*time.Millisecond, func(path string) {
		j := classifyEvent(path, cfg)
		if j == nil {
			return
		}
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; wg.Done() }()
			convert(*j)
		}()
	})
	defer db.stop()

	initialScan(ctx, cfg, engine, jobParams, outLock, log)
	log("watch daemon ready\n")

	go pollLoop(ctx, cfg, cfg.Watch.PollDuration(), func(path string) { db.trigger(path) })

	eventLoop(ctx, w, db)

	log("waiting for in-flight conversions\n")
	wg.Wait()
	return nil
}

func watchRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// initialScan processes stale PDFs already present in the input directory
// at startup, deduplicated by output path.
func initialScan(ctx context.Context, cfg *config.Config, engine ocrbox.Engine, jobParams pipeline.Params, outLock *pathLocker, log func(format string, args ...any)) {
	jobs := make(map[string]job)
	filepath.WalkDir(cfg.Watch.InputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if j := classifyEvent(path, cfg); j != nil {
			jobs[j.output] = *j
		}
		return nil
	})

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j job) {
			defer func() { <-sem; wg.Done() }()
			outLock.Lock(j.output)
			defer outLock.Unlock(j.output)
			convertJob(ctx, j, cfg, engine, jobParams, log)
		}(j)
	}
	wg.Wait()
}

func eventLoop(ctx context.Context, w *fsnotify.Watcher, db *debouncer) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					watchRecursive(w, ev.Name)
					continue
				}
			}
			if ev.Has(fsnotify.Rename) {
				if _, err := os.Stat(ev.Name); err != nil {
					continue
				}
				w.Add(filepath.Dir(ev.Name))
			}
			db.trigger(ev.Name)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}

// pollLoop walks the input directory at a fixed interval to catch mtime
// changes on filesystems where fsnotify doesn't fire reliably (network or
// virtual filesystems).
func pollLoop(ctx context.Context, cfg *config.Config, interval time.Duration, onChanged func(path string)) {
	mtimes := make(map[string]time.Time)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		seen := make(map[string]bool)
		filepath.WalkDir(cfg.Watch.InputDir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if strings.ToLower(filepath.Ext(path)) != ".pdf" {
				return nil
			}
			seen[path] = true
			info, err := d.Info()
			if err != nil {
				return nil
			}
			mt := info.ModTime()
			if prev, ok := mtimes[path]; !ok || !mt.Equal(prev) {
				mtimes[path] = mt
				onChanged(path)
			}
			return nil
		})

		for path := range mtimes {
			if !seen[path] {
				delete(mtimes, path)
			}
		}
	}
}

// classifyEvent reports the job a raw filesystem path implies, or nil if
// the path isn't a candidate (wrong extension, outside the input dir, or
// already up to date).
func classifyEvent(path string, cfg *config.Config) *job {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return nil
	}
	if !isUnderDir(path, cfg.Watch.InputDir) {
		return nil
	}
	rel, err := filepath.Rel(cfg.Watch.InputDir, path)
	if err != nil {
		return nil
	}
	out := filepath.Join(cfg.Watch.OutputDir, rel)
	if isUpToDate(path, out) {
		return nil
	}
	return &job{input: path, output: out}
}

func isUpToDate(input, output string) bool {
	in, err := os.Stat(input)
	if err != nil {
		return true // vanished since the event fired; nothing to do
	}
	out, err := os.Stat(output)
	if err != nil {
		return false
	}
	return !in.ModTime().After(out.ModTime())
}

func isUnderDir(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return strings.HasPrefix(absPath, absDir+string(filepath.Separator)) || absPath == absDir
}

func convertJob(ctx context.Context, j job, cfg *config.Config, engine ocrbox.Engine, jobParams pipeline.Params, log func(format string, args ...any)) {
	if dir := filepath.Dir(j.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log("error creating directory %s: %v\n", dir, err)
			return
		}
	}

	p := jobParams
	p.InputPath = j.input
	p.OutputPath = j.output

	start := time.Now()
	logFile, err := os.Create(p.OutputPath + ".log")
	if err != nil {
		log("error creating job log for %s: %v\n", j.input, err)
		return
	}
	defer logFile.Close()

	statusPath := p.OutputPath + ".status.json"
	inputBytes := fileSize(p.InputPath)

	if err := pipeline.Run(ctx, *cfg, p, engine, logFile); err != nil {
		log("error converting %s: %v\n", j.input, err)
		jobstore.WriteStatus(statusPath, jobstore.Status{State: "error"})
		return
	}

	outputBytes := fileSize(p.OutputPath)
	savings := jobstore.SavingsPct(inputBytes, outputBytes)
	jobstore.WriteStatus(statusPath, jobstore.Status{
		State:        "done",
		InputBytes:   &inputBytes,
		OutputBytes:  &outputBytes,
		SavingsBytes: ptr(inputBytes - outputBytes),
		SavingsPct:   &savings,
	})
	log("converted %s -> %s (%.2fs)\n", filepath.Base(j.input), filepath.Base(j.output), time.Since(start).Seconds())
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func ptr(v int64) *int64 { return &v }
