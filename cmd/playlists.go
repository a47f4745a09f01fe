package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Playlists extracts every playlist of a folder export into a track CSV.
//
// With --update-owners it rewrites the folder JSON with each playlist's owner instead.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("file"))
	if path == "" {
		return fmt.Errorf("%w: usage: genrex playlists <folder.json>", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", shared.ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to read folder file: %w", err)
	}

	folder, err := tasks.ParseFolder(data)
	if err != nil {
		return err
	}

	source, err := r.playlistSource(ctx)
	if err != nil {
		return err
	}
	extractor := tasks.NewExtractor(source, r.logger)

	if cmd.Bool("update-owners") {
		return r.updateOwners(ctx, extractor, path, data, len(folder.Children))
	}

	r.writePlainHeader(fmt.Sprintf("Folder: %s (%s)", folder.Name, folder.Year))

	progress := make(chan tasks.ProgressUpdate, 2*len(folder.Children)+1)
	result, err := extractor.Extract(ctx, folder, progress)
	close(progress)
	for u := range progress {
		r.writePlain("%s\n", u.Message)
	}
	if err != nil {
		return err
	}

	var batchErr error
	if cmd.Bool("enrich") {
		var res *tasks.BatchResult
		res, batchErr = r.enrichRows(ctx, cmd, result.Rows, true, "playlists")
		if batchErr != nil && res == nil {
			return batchErr
		}
		if res != nil {
			r.writePlain("%s", formatter.ExportSummary(res))
		}
	}

	output := cmd.String("output")
	if output == "" {
		output = tasks.TrackFileName(folder.Name)
	}

	if err := formatter.WriteCSVFile(output, result.Rows); err != nil {
		return err
	}

	r.writePlainln("✓ Extracted %d tracks from %d playlists", len(result.Rows), result.Playlists)
	r.writePlain("Saved to: %s\n", output)
	return batchErr
}

func (r *Runner) updateOwners(ctx context.Context, extractor *tasks.Extractor, path string, data []byte, children int) error {
	progress := make(chan tasks.ProgressUpdate, children+1)
	updated, updates, err := extractor.UpdateOwners(ctx, data, progress)
	close(progress)
	for u := range progress {
		r.writePlain("%s\n", u.Message)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, updated, 0644); err != nil {
		return fmt.Errorf("failed to write folder file: %w", err)
	}

	r.writePlainln("✓ Updated %d playlist owners in %s", len(updates), path)
	return nil
}
