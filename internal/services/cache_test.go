package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/shared"
)

type countingFetcher struct {
	calls map[string]int
	tags  TagSet
	match *TrackQuery
	err   error
}

func (f *countingFetcher) record(op string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

func (f *countingFetcher) TrackTags(ctx context.Context, artist, track string) (TagSet, error) {
	f.record(CacheKindTrack)
	return f.tags, f.err
}

func (f *countingFetcher) ArtistTags(ctx context.Context, artist string) (TagSet, error) {
	f.record(CacheKindArtist)
	return f.tags, f.err
}

func (f *countingFetcher) SearchBestMatch(ctx context.Context, artist, track string) (*TrackQuery, error) {
	f.record(CacheKindSearch)
	return f.match, f.err
}

type memoryCache struct {
	entries map[string][]string
	ttls    map[string]time.Duration
	getErr  error
	putErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) GetTags(ctx context.Context, kind, key string) ([]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	tags, ok := m.entries[kind+":"+key]
	if !ok {
		return nil, shared.ErrCacheMiss
	}
	return tags, nil
}

func (m *memoryCache) PutTags(ctx context.Context, kind, key string, tags []string, ttl time.Duration) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[kind+":"+key] = tags
	m.ttls[kind+":"+key] = ttl
	return nil
}

func TestCachedTagFetcher(t *testing.T) {
	ctx := context.Background()

	t.Run("memoizes track and artist tags", func(t *testing.T) {
		inner := &countingFetcher{tags: TagSet{"rock"}}
		cache := newMemoryCache()
		f := NewCachedTagFetcher(inner, cache, time.Hour, nil)

		for range 3 {
			tags, err := f.TrackTags(ctx, "Radiohead", "Creep")
			if err != nil || len(tags) != 1 || tags[0] != "rock" {
				t.Fatalf("unexpected result %v (%v)", tags, err)
			}
		}
		if _, err := f.ArtistTags(ctx, "Radiohead"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.ArtistTags(ctx, "Radiohead"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if inner.calls[CacheKindTrack] != 1 || inner.calls[CacheKindArtist] != 1 {
			t.Errorf("expected one inner call per kind, got %v", inner.calls)
		}
		if cache.ttls["track:Radiohead|Creep"] != time.Hour {
			t.Errorf("expected ttl to be passed through, got %v", cache.ttls)
		}
	})

	t.Run("keys are case sensitive", func(t *testing.T) {
		inner := &countingFetcher{tags: TagSet{"pop"}}
		cache := newMemoryCache()
		f := NewCachedTagFetcher(inner, cache, 0, nil)

		for _, q := range [][2]string{{"Bjork", "Joga"}, {"bjork", "joga"}, {" Bjork", "Joga"}} {
			if _, err := f.TrackTags(ctx, q[0], q[1]); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := f.SearchBestMatch(ctx, q[0], q[1]); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if _, err := f.ArtistTags(ctx, "Bjork"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.ArtistTags(ctx, "bjork"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if inner.calls[CacheKindTrack] != 3 || inner.calls[CacheKindSearch] != 3 || inner.calls[CacheKindArtist] != 2 {
			t.Errorf("expected every spelling to reach the inner fetcher, got %v", inner.calls)
		}
		if _, ok := cache.entries["track:bjork|joga"]; !ok {
			t.Errorf("expected lowercase entry to be stored separately, got %v", cache.entries)
		}
	})

	t.Run("empty results are cached", func(t *testing.T) {
		inner := &countingFetcher{}
		f := NewCachedTagFetcher(inner, newMemoryCache(), 0, nil)

		for range 2 {
			tags, err := f.ArtistTags(ctx, "Nobody")
			if err != nil || len(tags) != 0 {
				t.Fatalf("unexpected result %v (%v)", tags, err)
			}
		}
		if inner.calls[CacheKindArtist] != 1 {
			t.Errorf("expected 1 inner call, got %d", inner.calls[CacheKindArtist])
		}
	})

	t.Run("errors are not cached", func(t *testing.T) {
		inner := &countingFetcher{err: &FetchError{Op: methodTrackInfo, Err: shared.ErrTimeout}}
		cache := newMemoryCache()
		f := NewCachedTagFetcher(inner, cache, 0, nil)

		for range 2 {
			if _, err := f.TrackTags(ctx, "a", "b"); !errors.Is(err, shared.ErrTimeout) {
				t.Fatalf("expected timeout, got %v", err)
			}
		}
		if inner.calls[CacheKindTrack] != 2 || len(cache.entries) != 0 {
			t.Errorf("expected errors to bypass the cache, calls=%v entries=%v", inner.calls, cache.entries)
		}
	})

	t.Run("search corrections and misses", func(t *testing.T) {
		inner := &countingFetcher{match: &TrackQuery{Artist: "Tom Jobim", Track: "Garota de Ipanema"}}
		f := NewCachedTagFetcher(inner, newMemoryCache(), 0, nil)

		for range 2 {
			got, err := f.SearchBestMatch(ctx, "tom jobin", "garota")
			if err != nil || got == nil || got.Artist != "Tom Jobim" {
				t.Fatalf("unexpected result %+v (%v)", got, err)
			}
		}

		inner.match = nil
		for range 2 {
			got, err := f.SearchBestMatch(ctx, "zzz", "zzz")
			if err != nil || got != nil {
				t.Fatalf("expected no match, got %+v (%v)", got, err)
			}
		}
		if inner.calls[CacheKindSearch] != 2 {
			t.Errorf("expected 2 inner searches, got %d", inner.calls[CacheKindSearch])
		}
	})

	t.Run("broken cache falls through to the inner fetcher", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		inner := &countingFetcher{tags: TagSet{"jazz"}}
		cache := newMemoryCache()
		cache.getErr = errors.New("disk I/O error")
		cache.putErr = errors.New("disk I/O error")
		f := NewCachedTagFetcher(inner, cache, 0, logger)

		tags, err := f.TrackTags(ctx, "a", "b")
		if err != nil || len(tags) != 1 || tags[0] != "jazz" {
			t.Fatalf("unexpected result %v (%v)", tags, err)
		}
		if !strings.Contains(buf.String(), "tag cache read failed") || !strings.Contains(buf.String(), "tag cache write failed") {
			t.Errorf("expected cache failures to be logged, got %q", buf.String())
		}
	})
}
