package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Enrich fills empty genre cells of a track CSV and writes the enriched copy.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	input := strings.TrimSpace(cmd.StringArg("input"))
	if input == "" {
		return fmt.Errorf("%w: usage: genrex enrich <input.csv>", shared.ErrMissingArgument)
	}

	output := cmd.String("output")
	if output == "" {
		output = formatter.EnrichedFileName(input)
	}

	rows, err := formatter.ReadCSVFile(input)
	if err != nil {
		return err
	}

	r.logger.Info("loaded tracks", "path", input, "rows", len(rows))

	res, err := r.enrichRows(ctx, cmd, rows, !cmd.Bool("all"), "enrich")
	if err != nil && res == nil {
		return err
	}

	// Partial results from an interrupted batch are still saved.
	if writeErr := formatter.WriteCSVFile(output, rows); writeErr != nil {
		return writeErr
	}

	r.writePlainln("✓ Enriched CSV written to %s", output)
	if res != nil {
		r.writePlain("%s", formatter.ExportSummary(res))
	}
	return err
}

// enrichRows resolves rows in place. It returns a nil result when every row already has a genre.
// A cancelled batch still applies the genres found so far and returns the cancellation error.
func (r *Runner) enrichRows(ctx context.Context, cmd *cli.Command, rows []models.TrackRow, onlyMissing bool, source string) (*tasks.BatchResult, error) {
	items := tasks.RowItems(rows, onlyMissing)
	if len(items) == 0 {
		r.writePlain("No tracks need genre updates!\n")
		return nil, nil
	}

	r.writePlain("Resolving %d of %d tracks\n", len(items), len(rows))

	res, err := r.runBatch(ctx, cmd, "Enriching track genres", items, r.batchOpts(cmd, source), func(u tasks.ProgressUpdate) {
		if u.Phase == tasks.ResolveGenres {
			r.writePlain("%s\n", u.Message)
		}
	})
	if res != nil {
		changed := tasks.ApplyGenres(rows, res)
		r.logger.Info("applied genres", "changed", changed, "failed", res.Failed)
		if res.Failed > 0 {
			r.writePlainln("Failed lookups (left blank):")
			formatter.WriteFailures(r.output, res)
		}
	}
	if err != nil {
		return res, fmt.Errorf("batch interrupted: %w", err)
	}
	return res, nil
}
