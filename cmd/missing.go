package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/repositories"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Missing resolves genres for Mongo documents whose genre is absent or blank.
//
// Without --write it only reports what it found.
func (r *Runner) Missing(ctx context.Context, cmd *cli.Command) error {
	write := cmd.Bool("write")

	if _, err := r.resolver(); err != nil {
		return err
	}

	store, err := r.openDocuments(ctx)
	if err != nil {
		return err
	}

	docs, err := store.FindMissingGenres(ctx)
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	if len(docs) == 0 {
		r.writePlain("No tracks need genre updates!\n")
		return nil
	}

	r.writePlain("Found %d tracks with missing genres\n", len(docs))
	if !write {
		r.writePlain("Dry run: genres will not be saved (use --write to persist)\n")
	}

	items := repositories.Items(docs)
	byID := make(map[string]repositories.TrackDocument, len(docs))
	for i, item := range items {
		byID[item.ID] = docs[i]
	}

	opts := r.batchOpts(cmd, "missing")
	if write {
		opts.Sink = store
	}

	res, err := r.runBatch(ctx, cmd, "Resolving missing genres", items, opts, func(u tasks.ProgressUpdate) {
		ir, ok := u.Data.(tasks.ItemResult)
		if !ok {
			return
		}
		doc := byID[ir.Item.ID]
		r.writePlain("\n[%d/%d] %s - %s\n", u.Step, u.Total, doc.Artist, doc.Track)
		r.writePlain("Album: %s (%s)\n", doc.Album, doc.Year)
		r.writePlain("Genre found: %s\n", ir.Genre)
		if ir.StoreErr != nil {
			r.writePlain("Failed to update: %v\n", ir.StoreErr)
		}
	})
	if res == nil {
		return err
	}

	r.writePlainln("Done!")
	r.writePlain("%s", formatter.ExportSummary(res))
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return nil
}
