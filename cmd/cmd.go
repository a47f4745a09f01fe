// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are accepted by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// batchFlags tune the batch driver for commands that resolve many tracks.
func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent lookups (default from config, max 10)",
		},
		&cli.FloatFlag{
			Name:  "rate-limit",
			Usage: "Lookups admitted per second, 0 disables the gate (default from config)",
			Value: -1,
		},
		&cli.BoolFlag{
			Name:  "tui",
			Usage: "Show an interactive progress view",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Do not record resolutions in the local database",
		},
	}
}

// genreCommand resolves a single track
func genreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "genre",
		Usage:     "Resolve the canonical genre of one track",
		ArgsUsage: "<artist> <track>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
			&cli.StringArg{Name: "track"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Also print the matching stage and tag",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record the resolution in the local database",
			},
		},
		Action: r.Genre,
	}
}

// enrichCommand fills empty genres in a track CSV
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "enrich",
		Usage:     "Fill empty genre cells of a track CSV",
		ArgsUsage: "<input.csv>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "input"},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path (default: <input>_enriched.csv)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Re-resolve rows that already have a genre",
			},
		}, batchFlags()...),
		Action: r.Enrich,
	}
}

// missingCommand resolves Mongo documents without a genre
func missingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "missing",
		Usage: "Resolve genres for MongoDB track documents that lack one",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Persist resolved genres back to the collection (default is a dry run)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Process at most this many documents (0 for all)",
			},
		}, batchFlags()...),
		Action: r.Missing,
	}
}

// playlistsCommand extracts tracks from a Spotify playlist folder export
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlists",
		Aliases:   []string{"extract"},
		Usage:     "Extract tracks from a Spotify playlist folder JSON into a CSV",
		ArgsUsage: "<folder.json>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path (default: <folder>_tracks.csv)",
			},
			&cli.BoolFlag{
				Name:  "update-owners",
				Usage: "Rewrite each playlist's author with its owner and save the JSON instead of extracting",
			},
			&cli.BoolFlag{
				Name:  "enrich",
				Usage: "Resolve genres for the extracted rows",
			},
		}, batchFlags()...),
		Action: r.Playlists,
	}
}

// taxonomyCommand inspects genre taxonomies
func taxonomyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "taxonomy",
		Usage: "Inspect and validate genre taxonomies",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "List canonical genres and their aliases",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Output Markdown",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TaxonomyShow,
			},
			{
				Name:      "check",
				Usage:     "Validate a TOML taxonomy definition",
				ArgsUsage: "<file.toml>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Action: r.TaxonomyCheck,
			},
			{
				Name:  "export",
				Usage: "Write the built-in taxonomy as TOML for customization",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.TaxonomyExport,
			},
		},
	}
}

// historyCommand lists recorded resolutions
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent genre resolutions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries (0 for all)",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only show entries with this status (resolved, unknown, error)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.History,
	}
}

// cacheCommand manages the Last.fm tag cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local Last.fm tag cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cached entry counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:  "clear",
				Usage: "Delete cached entries",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "expired",
						Usage: "Only delete expired entries",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand initializes configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml if missing, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead",
			},
		},
		Action: r.Setup,
	}
}
