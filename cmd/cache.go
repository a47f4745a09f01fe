package main

import (
	"context"
	"sort"

	"github.com/desertthunder/genrex/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheStats prints cached entry counts per lookup kind.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	stats, err := repositories.NewTagCacheRepository(db).Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, false)
	}

	kinds := make([]string, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	r.writePlainHeader("Tag cache")
	for _, kind := range kinds {
		r.writePlain("%-8s %d\n", kind, stats.ByKind[kind])
	}
	r.writePlain("total    %d (%d expired)\n", stats.Total, stats.Expired)
	return nil
}

// CacheClear deletes cached entries, optionally only the expired ones.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	repo := repositories.NewTagCacheRepository(db)

	var deleted int64
	if cmd.Bool("expired") {
		deleted, err = repo.DeleteExpired(ctx)
	} else {
		deleted, err = repo.Clear(ctx)
	}
	if err != nil {
		return err
	}

	r.logger.Info("cache cleared", "deleted", deleted, "expired_only", cmd.Bool("expired"))
	return r.writePlain("✓ Deleted %d cached entries\n", deleted)
}
