package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/desertthunder/genrex/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/genrex-tui.log"

// batchOpts merges the batch flags over the configured defaults.
func (r *Runner) batchOpts(cmd *cli.Command, source string) tasks.BatchOpts {
	config := r.cfg()
	opts := tasks.BatchOpts{
		Workers:   config.Batch.Workers,
		RateLimit: config.Batch.RateLimit,
	}

	if workers := int(cmd.Int("workers")); workers > 0 {
		opts.Workers = workers
	}
	if limit := float64(cmd.Float("rate-limit")); limit >= 0 {
		opts.RateLimit = limit
	}
	if !cmd.Bool("no-history") {
		if rec := r.recorder(source); rec != nil {
			opts.Recorder = rec
		}
	}
	return opts
}

// runBatch resolves items, either behind the TUI (--tui) or streaming each update to report.
// report may be nil.
func (r *Runner) runBatch(ctx context.Context, cmd *cli.Command, title string, items []tasks.Item, opts tasks.BatchOpts, report func(tasks.ProgressUpdate)) (*tasks.BatchResult, error) {
	resolver, err := r.resolver()
	if err != nil {
		return nil, err
	}

	if cmd.Bool("tui") {
		// Logs would tear the TUI; send them to a file while it runs.
		fileLogger, err := shared.NewFileLogger(tuiLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create file logger: %w", err)
		}
		previous := r.logger
		r.SetLogger(fileLogger)
		defer r.SetLogger(previous)

		engine := tasks.NewBatchEngine(resolver, fileLogger)
		return ui.Run(ctx, title, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.BatchResult, error) {
			return engine.Run(ctx, items, opts, progress)
		}, r.input, r.output)
	}

	engine := tasks.NewBatchEngine(resolver, r.logger)

	// One slot per item plus the completion update, so the non-blocking sender never drops a line.
	progress := make(chan tasks.ProgressUpdate, len(items)+1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			if report != nil {
				report(update)
			}
		}
	}()

	result, err := engine.Run(ctx, items, opts, progress)
	close(progress)
	wg.Wait()

	return result, err
}
