// Package genre resolves a track to a single canonical genre.
//
// [Resolver.Resolve] walks a fixed chain of tag lookups and stops at the first tag set that
// contains a taxonomy alias:
//
//  1. tags of the track itself
//  2. tags of the artist
//  3. the best search correction of (artist, track), then its track tags and its artist tags
//  4. [taxonomy.Unknown]
//
// There is no scoring. A tag set either maps (first alias wins) or it does not, and an empty
// tag set is treated exactly like one with no mapped tags.
//
// Fetch failures are not swallowed: a [*services.FetchError] aborts that one resolution and is
// returned to the caller, which decides how to record it.
package genre

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/taxonomy"
)

// Stage names the lookup that produced a [Result].
type Stage string

const (
	StageTrack           Stage = "track"
	StageArtist          Stage = "artist"
	StageCorrectedTrack  Stage = "corrected_track"
	StageCorrectedArtist Stage = "corrected_artist"
	StageNone            Stage = "none"
)

// Result is the outcome of one resolution.
type Result struct {
	Genre taxonomy.CanonicalGenre `json:"genre"`
	Stage Stage                   `json:"stage"`
	Tag   string                  `json:"tag,omitempty"` // Alias that matched
	Query services.TrackQuery     `json:"query"`         // Pair whose tags matched, or the input when unresolved
}

// Resolved reports whether a canonical genre was found.
func (r Result) Resolved() bool {
	return r.Stage != StageNone && r.Genre != taxonomy.Unknown
}

// Resolver maps tracks to canonical genres. It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	table   *taxonomy.Table
	fetcher services.TagFetcher
	logger  *log.Logger
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithLogger sets the logger used for per-stage debug traces.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a [Resolver] over table and fetcher.
func NewResolver(table *taxonomy.Table, fetcher services.TagFetcher, opts ...Option) *Resolver {
	r := &Resolver{table: table, fetcher: fetcher, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the canonical genre of q, or [taxonomy.Unknown] with [StageNone] when no stage matches.
func (r *Resolver) Resolve(ctx context.Context, q services.TrackQuery) (Result, error) {
	unresolved := Result{Genre: taxonomy.Unknown, Stage: StageNone, Query: q}

	if res, ok, err := r.trackStage(ctx, StageTrack, q); err != nil || ok {
		return pick(res, unresolved, ok), err
	}

	if res, ok, err := r.artistStage(ctx, StageArtist, q); err != nil || ok {
		return pick(res, unresolved, ok), err
	}

	corrected, err := r.fetcher.SearchBestMatch(ctx, q.Artist, q.Track)
	if err != nil {
		return unresolved, err
	}
	if corrected == nil {
		r.logger.Debug("no search correction", "artist", q.Artist, "track", q.Track)
		return unresolved, nil
	}
	r.logger.Debug("search correction", "artist", corrected.Artist, "track", corrected.Track)

	if res, ok, err := r.trackStage(ctx, StageCorrectedTrack, *corrected); err != nil || ok {
		return pick(res, unresolved, ok), err
	}

	if res, ok, err := r.artistStage(ctx, StageCorrectedArtist, *corrected); err != nil || ok {
		return pick(res, unresolved, ok), err
	}

	r.logger.Debug("unresolved", "artist", q.Artist, "track", q.Track)
	return unresolved, nil
}

func (r *Resolver) trackStage(ctx context.Context, stage Stage, q services.TrackQuery) (Result, bool, error) {
	tags, err := r.fetcher.TrackTags(ctx, q.Artist, q.Track)
	if err != nil {
		return Result{}, false, err
	}
	return r.match(stage, q, tags)
}

func (r *Resolver) artistStage(ctx context.Context, stage Stage, q services.TrackQuery) (Result, bool, error) {
	tags, err := r.fetcher.ArtistTags(ctx, q.Artist)
	if err != nil {
		return Result{}, false, err
	}
	return r.match(stage, q, tags)
}

func (r *Resolver) match(stage Stage, q services.TrackQuery, tags services.TagSet) (Result, bool, error) {
	genre, tag, ok := r.table.FirstMatch(tags)
	r.logger.Debug("stage", "stage", stage, "artist", q.Artist, "track", q.Track, "tags", len(tags), "genre", genre)
	if !ok {
		return Result{}, false, nil
	}
	return Result{Genre: genre, Stage: stage, Tag: tag, Query: q}, true, nil
}

func pick(res, unresolved Result, ok bool) Result {
	if ok {
		return res
	}
	return unresolved
}
