package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/genre"
	"github.com/desertthunder/genrex/internal/repositories"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/desertthunder/genrex/internal/taxonomy"
	"github.com/urfave/cli/v3"
)

// documentStore is the Mongo collection as seen by the missing command.
type documentStore interface {
	tasks.Sink
	FindMissingGenres(ctx context.Context) ([]repositories.TrackDocument, error)
	Close(ctx context.Context) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators that need credentials (Last.fm, Spotify, MongoDB) are built on first use so that
// commands which do not need them run without configuration.
type Runner struct {
	config     *shared.Config
	configPath string
	fetcher    services.TagFetcher
	playlists  tasks.PlaylistSource
	documents  documentStore
	table      *taxonomy.Table
	db         *sql.DB
	ownsDB     bool
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Fetcher    services.TagFetcher
	Playlists  tasks.PlaylistSource
	Documents  documentStore
	Table      *taxonomy.Table
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		fetcher:    opts.Fetcher,
		playlists:  opts.Playlists,
		documents:  opts.Documents,
		table:      opts.Table,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		genreCommand, enrichCommand, missingCommand, playlistsCommand, taxonomyCommand, historyCommand, cacheCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "genrex",
		Usage:    "Fill missing track genres from Last.fm tags",
		Version:  "0.3.0",
		Flags:    globalFlags(),
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
		Writer:   r.output,
	}
}

// before loads configuration (unless one was injected) and applies the global flags.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := shared.ResolveConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}
	return ctx, nil
}

func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	if r.documents != nil {
		if err := r.documents.Close(ctx); err != nil {
			r.logger.Warn("failed to close document store", "error", err)
		}
	}
	if r.ownsDB && r.db != nil {
		if err := r.db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
		r.db = nil
		r.ownsDB = false
	}
	return nil
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// taxonomyTable loads the configured taxonomy, or the built-in one.
func (r *Runner) taxonomyTable() (*taxonomy.Table, error) {
	if r.table != nil {
		return r.table, nil
	}

	table, err := taxonomy.Load(r.cfg().Taxonomy.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	r.table = table
	return table, nil
}

// database opens the SQLite database, running pending migrations.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenMigrated(r.cfg().Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.ownsDB = true
	return db, nil
}

// tagFetcher returns the Last.fm client, wrapped in the SQLite cache when enabled.
// A cache that cannot be opened is reported and skipped.
func (r *Runner) tagFetcher() (services.TagFetcher, error) {
	if r.fetcher != nil {
		return r.fetcher, nil
	}

	config := r.cfg()
	if err := config.RequireLastFM(); err != nil {
		return nil, err
	}

	lastfm, err := services.NewLastFMService(
		config.Credentials.LastFM.APIKey,
		config.Credentials.LastFM.Timeout(),
		services.WithLastFMBaseURL(config.Credentials.LastFM.BaseURL),
		services.WithLastFMLogger(r.logger),
	)
	if err != nil {
		return nil, err
	}

	var fetcher services.TagFetcher = lastfm
	if config.Cache.Enabled {
		if db, err := r.database(); err != nil {
			r.logger.Warn("tag cache unavailable, continuing without it", "error", err)
		} else {
			cache := repositories.NewTagCacheRepository(db)
			fetcher = services.NewCachedTagFetcher(lastfm, cache, config.Cache.TTL(), r.logger)
		}
	}

	r.fetcher = fetcher
	return fetcher, nil
}

func (r *Runner) resolver() (*genre.Resolver, error) {
	table, err := r.taxonomyTable()
	if err != nil {
		return nil, err
	}

	fetcher, err := r.tagFetcher()
	if err != nil {
		return nil, err
	}

	return genre.NewResolver(table, fetcher, genre.WithLogger(r.logger)), nil
}

// recorder returns a history recorder for source, or nil when the database is unavailable.
func (r *Runner) recorder(source string) tasks.Recorder {
	db, err := r.database()
	if err != nil {
		r.logger.Warn("resolution history unavailable", "error", err)
		return nil
	}
	return repositories.NewResolutionRecorder(repositories.NewResolutionRepository(db), source)
}

func (r *Runner) playlistSource(ctx context.Context) (tasks.PlaylistSource, error) {
	if r.playlists != nil {
		return r.playlists, nil
	}

	config := r.cfg()
	if err := config.RequireSpotify(); err != nil {
		return nil, err
	}

	spotify, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	if err := spotify.Authenticate(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	r.playlists = spotify
	return spotify, nil
}

func (r *Runner) openDocuments(ctx context.Context) (documentStore, error) {
	if r.documents != nil {
		return r.documents, nil
	}

	config := r.cfg()
	if err := config.RequireMongo(); err != nil {
		return nil, err
	}

	store, err := repositories.ConnectDocumentStore(ctx, config.Mongo, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("connected to mongo", "database", store.Database(), "collection", config.Mongo.Collection)

	r.documents = store
	return store, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
