package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/genrex/internal/genre"
	"github.com/desertthunder/genrex/internal/taxonomy"
	"golang.org/x/time/rate"
)

const maxWorkers = 10

// Run resolves every item and returns per-item outcomes in submission order.
//
// A failed resolution is recorded as [StatusError] with genre [GenreError] and never aborts the batch.
// Items are admitted through an optional token bucket (opts.RateLimit) to a bounded pool of workers.
// When ctx is cancelled admission stops and every item not yet processed is reported as an error
// wrapping [context.Canceled]; the returned error is then ctx.Err().
func (e *BatchEngine) Run(ctx context.Context, items []Item, opts BatchOpts, progress chan<- ProgressUpdate) (*BatchResult, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	total := len(items)
	results := make([]ItemResult, total)
	processed := make([]bool, total)

	jobs := make(chan int)
	done := make(chan int, total)

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go e.worker(ctx, &wg, items, results, jobs, done, opts)
	}

	go func() {
		defer close(jobs)
		for i := range items {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	result := &BatchResult{Total: total}
	completed := 0
	for i := range done {
		completed++
		processed[i] = true
		sendProgress(progress, resolvedUpdate(completed, total, results[i]))
	}

	for i := range items {
		if processed[i] {
			continue
		}
		results[i] = ItemResult{
			Item:   items[i],
			Result: genre.Result{Genre: taxonomy.Unknown, Stage: genre.StageNone, Query: items[i].Query},
			Genre:  GenreError,
			Status: StatusError,
			Err:    fmt.Errorf("not processed: %w", context.Canceled),
		}
	}

	for _, r := range results {
		switch r.Status {
		case StatusResolved:
			result.Resolved++
		case StatusUnknown:
			result.Unknown++
		default:
			result.Failed++
		}
		if r.Stored {
			result.Stored++
		}
		if r.StoreErr != nil {
			result.StoreFailed++
		}
	}
	result.Results = results

	sendProgress(progress, batchCompleteUpdate(result))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// worker resolves items by index from jobs. Each index is written by exactly one worker.
func (e *BatchEngine) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	items []Item,
	results []ItemResult,
	jobs <-chan int,
	done chan<- int,
	opts BatchOpts,
) {
	defer wg.Done()

	for i := range jobs {
		results[i] = e.process(ctx, items[i], opts)
		done <- i
	}
}

// process resolves a single item, then applies the sink and recorder.
func (e *BatchEngine) process(ctx context.Context, item Item, opts BatchOpts) ItemResult {
	res, err := e.resolver.Resolve(ctx, item.Query)
	r := ItemResult{Item: item, Result: res}

	switch {
	case err != nil:
		r.Status = StatusError
		r.Genre = GenreError
		r.Err = err
		e.logger.Warn("genre lookup failed", "artist", item.Query.Artist, "track", item.Query.Track, "error", err)
	case res.Resolved():
		r.Status = StatusResolved
		r.Genre = res.Genre.String()
	default:
		r.Status = StatusUnknown
		r.Genre = taxonomy.Unknown.String()
	}

	if r.Status == StatusResolved && opts.Sink != nil {
		if err := opts.Sink.Store(ctx, item, r); err != nil {
			r.StoreErr = err
			e.logger.Error("failed to store genre", "id", item.ID, "error", err)
		} else {
			r.Stored = true
		}
	}

	if opts.Recorder != nil {
		if err := opts.Recorder.Record(ctx, r); err != nil {
			e.logger.Warn("failed to record resolution", "id", item.ID, "error", err)
		}
	}

	return r
}
