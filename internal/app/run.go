package app

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/vk/rcpsgo/internal/ctxlog"
	"github.com/vk/rcpsgo/internal/fsutil"
	"github.com/vk/rcpsgo/internal/rcpsp"
	"github.com/vk/rcpsgo/internal/reporter"
	"github.com/vk/rcpsgo/internal/search"
)

// Run executes the batch: discover instance files, solve each under the
// per-instance budget, and emit one result row per instance in discovery
// order. A failing instance is recorded as an error row and never aborts
// the rest of the batch.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	files, err := fsutil.FindInstanceFiles(a.config.DataDir, a.config.Extension, a.config.StartFrom)
	if err != nil {
		return fmt.Errorf("discovering instance files: %w", err)
	}
	if len(files) == 0 {
		a.logger.Warn("No instance files found, nothing to solve.", "data_dir", a.config.DataDir, "extension", a.config.Extension)
		return nil
	}
	a.logger.Info("Batch starting.",
		"instances", len(files),
		"time_limit", a.config.TimeLimit,
		"workers", a.config.Workers,
		"output", a.config.Output,
	)

	var sink reporter.Sink
	if a.config.Output == StdoutOutput {
		sink, err = reporter.NewWriterSink(a.outW)
	} else {
		sink, err = reporter.NewCSVSink(a.config.Output)
	}
	if err != nil {
		return err
	}

	// Fan the instances out to a bounded worker pool. Each worker builds
	// its own engine state per instance; only the result channels are
	// shared. Rows are still written in discovery order.
	results := make([]chan *search.SolutionRecord, len(files))
	for i := range results {
		results[i] = make(chan *search.SolutionRecord, 1)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] <- a.solveOne(ctx, files[i])
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range files {
			jobs <- i
		}
	}()

	var writeErr error
	for i := range files {
		rec := <-results[i]
		if rec.HasMakespan {
			a.logger.Info("Instance finished.", "instance", rec.Instance, "status", rec.Status, "makespan", rec.Makespan, "seconds", rec.ElapsedSeconds)
		} else {
			a.logger.Info("Instance finished without makespan.", "instance", rec.Instance, "status", rec.Status, "seconds", rec.ElapsedSeconds, "error", rec.Err)
		}
		if err := sink.Write(rec); err != nil && writeErr == nil {
			writeErr = fmt.Errorf("writing result row for %s: %w", rec.Instance, err)
		}
	}
	wg.Wait()

	if err := sink.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return writeErr
	}
	a.logger.Info("Batch finished.", "instances", len(files))

	if a.config.UploadURL != "" {
		if err := reporter.Upload(ctx, a.config.Output, a.config.UploadURL); err != nil {
			return fmt.Errorf("uploading results: %w", err)
		}
	}
	return nil
}

// solveOne parses and solves a single instance file. Parse and validation
// failures produce an error record without invoking the engine.
func (a *App) solveOne(ctx context.Context, path string) *search.SolutionRecord {
	startedAt := time.Now()
	inst, err := rcpsp.ParseFile(ctx, path)
	if err != nil {
		a.logger.Warn("Instance rejected.", "file", filepath.Base(path), "error", err)
		return &search.SolutionRecord{
			Instance:       filepath.Base(path),
			Status:         search.StatusError,
			ElapsedSeconds: math.Round(time.Since(startedAt).Seconds()*100) / 100,
			Err:            err,
		}
	}
	return search.Solve(ctx, inst, search.Options{
		TimeLimit: a.config.TimeLimit,
		Seed:      a.config.Seed,
	})
}
