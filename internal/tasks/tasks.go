package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/genre"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/services"
)

// Status classifies the outcome of one batch item.
type Status = models.ResolutionStatus

const (
	StatusResolved = models.StatusResolved
	StatusUnknown  = models.StatusUnknown
	StatusError    = models.StatusError
)

// GenreError is the genre recorded for items whose resolution failed.
const GenreError = "error"

// Item is one unit of batch work, such as a CSV row or a Mongo document.
type Item struct {
	ID      string              // Stable identifier (row index, document _id)
	Query   services.TrackQuery // Artist and track as they appear in the record
	Payload any                 // Caller data carried through to the result and sink
}

// ItemResult is the outcome of one [Item].
type ItemResult struct {
	Item     Item
	Result   genre.Result
	Genre    string // Canonical genre, "Unknown", or [GenreError]
	Status   Status
	Err      error // Resolution failure when Status is [StatusError]
	Stored   bool
	StoreErr error
}

// BatchResult aggregates a batch run. Results are in submission order.
type BatchResult struct {
	Results     []ItemResult
	Resolved    int
	Unknown     int
	Failed      int
	Stored      int
	StoreFailed int
	Total       int
}

// Resolver resolves a single track; [*genre.Resolver] implements it.
type Resolver interface {
	Resolve(ctx context.Context, q services.TrackQuery) (genre.Result, error)
}

// Sink persists resolved genres. It is only called for [StatusResolved] items.
type Sink interface {
	Store(ctx context.Context, item Item, result ItemResult) error
}

// Recorder receives every item outcome, e.g. for resolution history.
type Recorder interface {
	Record(ctx context.Context, result ItemResult) error
}

// BatchOpts contains configuration for a batch run.
type BatchOpts struct {
	Workers   int      // Concurrent resolutions (default: 1, max: 10)
	RateLimit float64  // Admissions per second, 0 disables the gate
	Sink      Sink     // Optional genre write-back
	Recorder  Recorder // Optional history
}

// BatchEngine drives the resolver over many items.
type BatchEngine struct {
	resolver Resolver
	logger   *log.Logger
}

// NewBatchEngine creates a [BatchEngine]. A nil logger uses the default logger.
func NewBatchEngine(resolver Resolver, logger *log.Logger) *BatchEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &BatchEngine{resolver: resolver, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
