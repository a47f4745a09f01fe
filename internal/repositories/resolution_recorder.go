package repositories

import (
	"context"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/tasks"
)

// ResolutionRecorder implements tasks.Recorder using ResolutionRepository.
//
// Each batch outcome becomes one history row tagged with the producing command.
type ResolutionRecorder struct {
	repo   *ResolutionRepository
	source string
}

// NewResolutionRecorder creates a recorder that tags entries with source
func NewResolutionRecorder(repo *ResolutionRepository, source string) *ResolutionRecorder {
	return &ResolutionRecorder{repo: repo, source: source}
}

// Record stores result as a resolution.
func (r *ResolutionRecorder) Record(ctx context.Context, result tasks.ItemResult) error {
	return r.repo.Create(ctx, ResolutionFromResult(result, r.source))
}

// ResolutionFromResult converts a batch outcome into a history record.
func ResolutionFromResult(result tasks.ItemResult, source string) *models.Resolution {
	p := models.ResolutionParams{
		Artist: result.Item.Query.Artist,
		Track:  result.Item.Query.Track,
		Genre:  result.Genre,
		Status: result.Status,
		Stage:  string(result.Result.Stage),
		Tag:    result.Result.Tag,
		Source: source,
	}
	if result.Err != nil {
		p.Error = result.Err.Error()
	}
	if p.Genre == "" {
		p.Genre = tasks.GenreError
	}
	return models.NewResolution(0, p)
}
