package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
)

// TagCacheRepository persists Last.fm tag lookups in the tag_cache table.
//
// It implements services.TagCache. Entries are keyed by (kind, cache_key); writing an
// existing key replaces its payload and expiry.
type TagCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

// CacheStats summarizes the cache contents.
type CacheStats struct {
	Total   int            `json:"total"`
	Expired int            `json:"expired"`
	ByKind  map[string]int `json:"by_kind"`
}

// NewTagCacheRepository creates a new TagCacheRepository
func NewTagCacheRepository(db *sql.DB) *TagCacheRepository {
	return &TagCacheRepository{db: db, now: time.Now}
}

// Get fetches an entry regardless of expiry.
func (r *TagCacheRepository) Get(ctx context.Context, kind, key string) (*models.CachedTags, error) {
	query := `
		SELECT payload, created_at, expires_at
		FROM tag_cache
		WHERE kind = ? AND cache_key = ?
	`

	var payload string
	var createdAt time.Time
	var expiresAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, kind, key).Scan(&payload, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %q", shared.ErrCacheMiss, kind, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached tags: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(payload), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode cached tags: %w", err)
	}

	entry := &models.CachedTags{Kind: kind, Key: key, Tags: tags, CreatedAt: createdAt}
	if expiresAt.Valid {
		t := expiresAt.Time
		entry.ExpiresAt = &t
	}
	return entry, nil
}

// GetTags returns the cached tags for key, or [shared.ErrCacheMiss] when absent or expired.
func (r *TagCacheRepository) GetTags(ctx context.Context, kind, key string) ([]string, error) {
	entry, err := r.Get(ctx, kind, key)
	if err != nil {
		return nil, err
	}
	if entry.Expired(r.now()) {
		return nil, fmt.Errorf("%w: %s %q expired", shared.ErrCacheMiss, kind, key)
	}
	if entry.Tags == nil {
		return []string{}, nil
	}
	return entry.Tags, nil
}

// PutTags stores tags under key. A zero ttl never expires.
func (r *TagCacheRepository) PutTags(ctx context.Context, kind, key string, tags []string, ttl time.Duration) error {
	if tags == nil {
		tags = []string{}
	}
	payload, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "tag_cache")
	if err != nil {
		return err
	}

	now := r.now().UTC()
	var expiresAt any
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	query := `
		INSERT INTO tag_cache (id, sequence, kind, cache_key, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, cache_key) DO UPDATE SET
			sequence = excluded.sequence,
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`

	_, err = r.db.ExecContext(ctx, query, shared.GenerateID(), sequence, kind, key, string(payload), now, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store cached tags: %w", err)
	}
	return nil
}

// Stats counts entries per kind and how many have expired.
func (r *TagCacheRepository) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{ByKind: map[string]int{}}

	rows, err := r.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM tag_cache GROUP BY kind ORDER BY kind")
	if err != nil {
		return nil, fmt.Errorf("failed to count cache entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats.ByKind[kind] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tag_cache WHERE expires_at IS NOT NULL AND expires_at <= ?",
		r.now().UTC(),
	).Scan(&stats.Expired)
	if err != nil {
		return nil, fmt.Errorf("failed to count expired entries: %w", err)
	}
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (r *TagCacheRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tag_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return result.RowsAffected()
}

// DeleteExpired removes expired entries and returns how many were deleted.
func (r *TagCacheRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tag_cache WHERE expires_at IS NOT NULL AND expires_at <= ?",
		r.now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired entries: %w", err)
	}
	return result.RowsAffected()
}
