package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/repositories"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/urfave/cli/v3"
)

type historyEntry struct {
	ID        string `json:"id"`
	Sequence  int    `json:"sequence"`
	Artist    string `json:"artist"`
	Track     string `json:"track"`
	Genre     string `json:"genre"`
	Status    string `json:"status"`
	Stage     string `json:"stage,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Error     string `json:"error,omitempty"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at"`
}

// History lists recent resolutions, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	status := models.ResolutionStatus(cmd.String("status"))
	switch status {
	case "", models.StatusResolved, models.StatusUnknown, models.StatusError:
	default:
		return fmt.Errorf("%w: status must be resolved, unknown or error", shared.ErrInvalidFlag)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	resolutions, err := repositories.NewResolutionRepository(db).List(ctx, int(cmd.Int("limit")), status)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		entries := make([]historyEntry, len(resolutions))
		for i, res := range resolutions {
			entries[i] = historyEntry{
				ID:        res.ID(),
				Sequence:  res.Sequence(),
				Artist:    res.Artist(),
				Track:     res.Track(),
				Genre:     res.Genre(),
				Status:    string(res.Status()),
				Stage:     res.Stage(),
				Tag:       res.Tag(),
				Error:     res.ErrorMessage(),
				Source:    res.Source(),
				CreatedAt: res.CreatedAt().UTC().Format("2006-01-02T15:04:05Z"),
			}
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(resolutions) == 0 {
		return r.writePlain("No resolutions recorded yet.\n")
	}
	return formatter.WriteHistory(r.output, resolutions)
}
