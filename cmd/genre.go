package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/desertthunder/genrex/internal/taxonomy"
	"github.com/urfave/cli/v3"
)

// Genre resolves one track and prints its canonical genre.
//
// A lookup failure aborts with an error; an unmatched track prints Unknown.
func (r *Runner) Genre(ctx context.Context, cmd *cli.Command) error {
	q := services.TrackQuery{
		Artist: strings.TrimSpace(cmd.StringArg("artist")),
		Track:  strings.TrimSpace(cmd.StringArg("track")),
	}
	if q.Artist == "" || q.Track == "" {
		return fmt.Errorf("%w: usage: genrex genre <artist> <track>", shared.ErrMissingArgument)
	}

	resolver, err := r.resolver()
	if err != nil {
		return err
	}

	r.logger.Debug("resolving", "artist", q.Artist, "track", q.Track)
	res, err := resolver.Resolve(ctx, q)

	item := tasks.ItemResult{Item: tasks.Item{ID: q.String(), Query: q}, Result: res}
	switch {
	case err != nil:
		item.Status, item.Genre, item.Err = tasks.StatusError, tasks.GenreError, err
	case res.Resolved():
		item.Status, item.Genre = tasks.StatusResolved, res.Genre.String()
	default:
		item.Status, item.Genre = tasks.StatusUnknown, taxonomy.Unknown.String()
	}

	if !cmd.Bool("no-history") {
		if rec := r.recorder("genre"); rec != nil {
			if recErr := rec.Record(ctx, item); recErr != nil {
				r.logger.Warn("failed to record resolution", "error", recErr)
			}
		}
	}

	if err != nil {
		return fmt.Errorf("genre lookup failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(res, cmd.Bool("pretty"))
	}

	if !cmd.Bool("verbose") {
		return r.writePlain("%s\n", res.Genre)
	}

	r.writePlain("Genre: %s\n", res.Genre)
	r.writePlain("Stage: %s\n", res.Stage)
	if res.Tag != "" {
		r.writePlain("Tag: %s\n", res.Tag)
	}
	if res.Query != q {
		r.writePlain("Matched: %s\n", res.Query)
	}
	return nil
}
