// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/genrex/internal/services"
)

// StubFetcher is a deterministic [services.TagFetcher] keyed by exact artist and track strings.
//
// Unregistered lookups return an empty TagSet. Errors, when registered, take precedence.
type StubFetcher struct {
	mu       sync.Mutex
	tracks   map[string]services.TagSet
	artists  map[string]services.TagSet
	searches map[string]*services.TrackQuery
	errs     map[string]error
	calls    []string
}

func NewStubFetcher() *StubFetcher {
	return &StubFetcher{
		tracks:   map[string]services.TagSet{},
		artists:  map[string]services.TagSet{},
		searches: map[string]*services.TrackQuery{},
		errs:     map[string]error{},
	}
}

func trackKey(artist, track string) string { return artist + "|" + track }

// WithTrack registers track tags for (artist, track).
func (s *StubFetcher) WithTrack(artist, track string, tags ...string) *StubFetcher {
	s.tracks[trackKey(artist, track)] = tags
	return s
}

// WithArtist registers artist tags.
func (s *StubFetcher) WithArtist(artist string, tags ...string) *StubFetcher {
	s.artists[artist] = tags
	return s
}

// WithSearch registers the correction returned for (artist, track).
func (s *StubFetcher) WithSearch(artist, track string, corrected services.TrackQuery) *StubFetcher {
	s.searches[trackKey(artist, track)] = &corrected
	return s
}

// WithError makes every lookup mentioning artist fail with err.
func (s *StubFetcher) WithError(artist string, err error) *StubFetcher {
	s.errs[artist] = err
	return s
}

// Calls returns the recorded lookups as "op:artist|track" strings in call order.
func (s *StubFetcher) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *StubFetcher) record(op, artist, track string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op+":"+trackKey(artist, track))
	if err, ok := s.errs[artist]; ok {
		return &services.FetchError{Op: op, Query: services.TrackQuery{Artist: artist, Track: track}, Err: err}
	}
	return nil
}

func (s *StubFetcher) TrackTags(ctx context.Context, artist, track string) (services.TagSet, error) {
	if err := s.record("track", artist, track); err != nil {
		return nil, err
	}
	if tags, ok := s.tracks[trackKey(artist, track)]; ok {
		return tags, nil
	}
	return services.TagSet{}, nil
}

func (s *StubFetcher) ArtistTags(ctx context.Context, artist string) (services.TagSet, error) {
	if err := s.record("artist", artist, ""); err != nil {
		return nil, err
	}
	if tags, ok := s.artists[artist]; ok {
		return tags, nil
	}
	return services.TagSet{}, nil
}

func (s *StubFetcher) SearchBestMatch(ctx context.Context, artist, track string) (*services.TrackQuery, error) {
	if err := s.record("search", artist, track); err != nil {
		return nil, err
	}
	if q, ok := s.searches[trackKey(artist, track)]; ok {
		corrected := *q
		return &corrected, nil
	}
	return nil, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
