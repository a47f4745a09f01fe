package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/genrex/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the template when missing, then initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("rollback") {
		return r.rollback()
	}

	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config file", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)

		config, err := shared.ResolveConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
	}

	config := r.cfg()
	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := r.database()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s (%d migrations applied)\n", config.Database.Path, len(versions))

	if err := config.RequireLastFM(); err != nil {
		r.writePlainln("Next steps:")
		r.writePlain("1. Set LASTFM_API_KEY in the environment, .env or %s\n", configPath)
		r.writePlain("2. Run 'genrex genre \"Radiohead\" \"Creep\"' to test the lookup\n")
	}
	return nil
}

func (r *Runner) rollback() error {
	db, err := r.database()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	r.logger.Info("rolled back migration", "remaining", len(versions))
	return r.writePlain("✓ Rolled back one migration (%d remaining)\n", len(versions))
}
