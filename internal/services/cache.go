package services

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/shared"
)

// Cache kinds, one per [TagFetcher] method.
const (
	CacheKindTrack  = "track"
	CacheKindArtist = "artist"
	CacheKindSearch = "search"
)

// TagCache stores tag lookups. GetTags returns [shared.ErrCacheMiss] for absent or expired entries.
type TagCache interface {
	GetTags(ctx context.Context, kind, key string) ([]string, error)
	PutTags(ctx context.Context, kind, key string, tags []string, ttl time.Duration) error
}

// CachedTagFetcher memoizes an inner [TagFetcher].
//
// Only successful lookups are stored, including empty ones. Cache failures are logged and
// otherwise ignored so a broken cache never changes a result.
type CachedTagFetcher struct {
	inner  TagFetcher
	cache  TagCache
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedTagFetcher wraps inner. A zero ttl stores entries without expiry.
func NewCachedTagFetcher(inner TagFetcher, cache TagCache, ttl time.Duration, logger *log.Logger) *CachedTagFetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedTagFetcher{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedTagFetcher) TrackTags(ctx context.Context, artist, track string) (TagSet, error) {
	return c.tags(ctx, CacheKindTrack, cacheKey(artist, track), func() (TagSet, error) {
		return c.inner.TrackTags(ctx, artist, track)
	})
}

func (c *CachedTagFetcher) ArtistTags(ctx context.Context, artist string) (TagSet, error) {
	return c.tags(ctx, CacheKindArtist, cacheKey(artist, ""), func() (TagSet, error) {
		return c.inner.ArtistTags(ctx, artist)
	})
}

// SearchBestMatch caches the correction as a two element [artist, track] entry; an empty entry means no match.
func (c *CachedTagFetcher) SearchBestMatch(ctx context.Context, artist, track string) (*TrackQuery, error) {
	key := cacheKey(artist, track)

	if cached, ok := c.get(ctx, CacheKindSearch, key); ok {
		if len(cached) == 2 {
			return &TrackQuery{Artist: cached[0], Track: cached[1]}, nil
		}
		return nil, nil
	}

	match, err := c.inner.SearchBestMatch(ctx, artist, track)
	if err != nil {
		return nil, err
	}

	entry := []string{}
	if match != nil {
		entry = []string{match.Artist, match.Track}
	}
	c.put(ctx, CacheKindSearch, key, entry)
	return match, nil
}

// cacheKey uses the exact request strings so a cached lookup always answers what the inner fetcher would.
func cacheKey(artist, track string) string {
	return artist + "|" + track
}

func (c *CachedTagFetcher) tags(ctx context.Context, kind, key string, fetch func() (TagSet, error)) (TagSet, error) {
	if cached, ok := c.get(ctx, kind, key); ok {
		return TagSet(cached), nil
	}

	tags, err := fetch()
	if err != nil {
		return nil, err
	}
	c.put(ctx, kind, key, tags)
	return tags, nil
}

func (c *CachedTagFetcher) get(ctx context.Context, kind, key string) ([]string, bool) {
	tags, err := c.cache.GetTags(ctx, kind, key)
	switch {
	case err == nil:
		c.logger.Debug("tag cache hit", "kind", kind, "key", key)
		return tags, true
	case errors.Is(err, shared.ErrCacheMiss):
	default:
		c.logger.Warn("tag cache read failed", "kind", kind, "key", key, "error", err)
	}
	return nil, false
}

func (c *CachedTagFetcher) put(ctx context.Context, kind, key string, tags []string) {
	if tags == nil {
		tags = []string{}
	}
	if err := c.cache.PutTags(ctx, kind, key, tags, c.ttl); err != nil {
		c.logger.Warn("tag cache write failed", "kind", kind, "key", key, "error", err)
	}
}
