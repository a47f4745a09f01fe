package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
)

// ResolutionRepository handles resolution history persistence.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts a resolution, assigning its id and sequence.
func (r *ResolutionRepository) Create(ctx context.Context, res *models.Resolution) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(ctx, r.db, "resolutions")
	if err != nil {
		return err
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO resolutions (id, sequence, artist, track, genre, status, stage, tag, error, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id, sequence, res.Artist(), res.Track(), res.Genre(), string(res.Status()),
		res.Stage(), res.Tag(), res.ErrorMessage(), res.Source(), res.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create resolution: %w", err)
	}

	res.SetID(id)
	res.SetSequence(sequence)
	return nil
}

// Get retrieves a resolution by id.
func (r *ResolutionRepository) Get(ctx context.Context, id string) (*models.Resolution, error) {
	query := `
		SELECT id, sequence, artist, track, genre, status, stage, tag, error, source, created_at
		FROM resolutions
		WHERE id = ?
	`

	res, err := scanResolution(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: resolution %s", shared.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resolution: %w", err)
	}
	return res, nil
}

// List returns the most recent resolutions, newest first. A limit of zero or less returns all of them,
// and an empty status matches every status.
func (r *ResolutionRepository) List(ctx context.Context, limit int, status models.ResolutionStatus) ([]*models.Resolution, error) {
	query := `
		SELECT id, sequence, artist, track, genre, status, stage, tag, error, source, created_at
		FROM resolutions
		WHERE (? = '' OR status = ?)
		ORDER BY sequence DESC
	`
	args := []any{string(status), string(status)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*models.Resolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		resolutions = append(resolutions, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resolutions: %w", err)
	}

	return resolutions, nil
}

// Count returns the number of stored resolutions.
func (r *ResolutionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM resolutions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count resolutions: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResolution(row rowScanner) (*models.Resolution, error) {
	var id, status string
	var sequence int
	var p models.ResolutionParams
	var createdAt time.Time

	err := row.Scan(&id, &sequence, &p.Artist, &p.Track, &p.Genre, &status, &p.Stage, &p.Tag, &p.Error, &p.Source, &createdAt)
	if err != nil {
		return nil, err
	}
	p.Status = models.ResolutionStatus(status)

	return models.RestoreResolution(id, sequence, p, createdAt), nil
}
