// Last.fm API implementation of [TagFetcher]
//
// Response shapes based on https://www.last.fm/api/show/track.getInfo, artist.getTopTags and track.search
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/tidwall/gjson"
)

const (
	lastfmBaseURL        = "https://ws.audioscrobbler.com/2.0/"
	lastfmDefaultTimeout = 10 * time.Second
)

const (
	methodTrackInfo  = "track.getInfo"
	methodArtistTags = "artist.getTopTags"
	methodSearch     = "track.search"
)

// Last.fm error codes, see https://www.last.fm/api/errorcodes
const (
	lastfmNotFound     = 6
	lastfmInvalidKey   = 10
	lastfmOffline      = 11
	lastfmUnavailable  = 16
	lastfmSuspendedKey = 26
	lastfmRateLimited  = 29
)

// LastFMService implements [TagFetcher] against the Last.fm web service.
type LastFMService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// LastFMOption configures a [LastFMService].
type LastFMOption func(*LastFMService)

// WithLastFMBaseURL overrides the API root (tests point it at an httptest server).
func WithLastFMBaseURL(u string) LastFMOption {
	return func(s *LastFMService) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithLastFMHTTPClient replaces the HTTP client. Its Timeout is the per-call deadline.
func WithLastFMHTTPClient(c *http.Client) LastFMOption {
	return func(s *LastFMService) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithLastFMLogger sets the logger used for request tracing.
func WithLastFMLogger(l *log.Logger) LastFMOption {
	return func(s *LastFMService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewLastFMService creates a Last.fm client. A non-positive timeout uses the 10 second default.
func NewLastFMService(apiKey string, timeout time.Duration, opts ...LastFMOption) (*LastFMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: LASTFM_API_KEY", shared.ErrMissingCredentials)
	}
	if timeout <= 0 {
		timeout = lastfmDefaultTimeout
	}

	s := &LastFMService{
		apiKey:     apiKey,
		baseURL:    lastfmBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *LastFMService) Name() string {
	return "Last.fm"
}

// TrackTags calls track.getInfo and returns the track's top tags.
func (s *LastFMService) TrackTags(ctx context.Context, artist, track string) (TagSet, error) {
	q := TrackQuery{Artist: artist, Track: track}
	res, err := s.call(ctx, methodTrackInfo, url.Values{"artist": {artist}, "track": {track}}, "track", q)
	if err != nil || res.state == lookupNotFound {
		return TagSet{}, err
	}
	return tagNames(res.body.Get("toptags.tag")), nil
}

// ArtistTags calls artist.getTopTags.
func (s *LastFMService) ArtistTags(ctx context.Context, artist string) (TagSet, error) {
	q := TrackQuery{Artist: artist}
	res, err := s.call(ctx, methodArtistTags, url.Values{"artist": {artist}}, "toptags", q)
	if err != nil || res.state == lookupNotFound {
		return TagSet{}, err
	}
	return tagNames(res.body.Get("tag")), nil
}

// SearchBestMatch calls track.search and returns the first match, which Last.fm ranks by relevance.
func (s *LastFMService) SearchBestMatch(ctx context.Context, artist, track string) (*TrackQuery, error) {
	q := TrackQuery{Artist: artist, Track: track}
	res, err := s.call(ctx, methodSearch, url.Values{"artist": {artist}, "track": {track}}, "results", q)
	if err != nil || res.state == lookupNotFound {
		return nil, err
	}

	matches := res.body.Get("trackmatches.track")
	best := matches
	if matches.IsArray() {
		best = matches.Get("0")
	}
	if !best.IsObject() {
		return nil, nil
	}

	name, by := best.Get("name").String(), best.Get("artist").String()
	if name == "" && by == "" {
		return nil, nil
	}
	return &TrackQuery{Artist: by, Track: name}, nil
}

type lookupState int

const (
	lookupFound lookupState = iota
	lookupNotFound
	lookupMalformed
	lookupFailed
)

// lookup is a parsed Last.fm response body.
type lookup struct {
	state   lookupState
	body    gjson.Result // value under the expected key when found
	code    int          // Last.fm error code when failed
	message string
}

// parseLookup classifies a response body. An error payload with code 6 or a body
// without the expected key is "not found"; any other error code is a failure.
func parseLookup(data []byte, key string) lookup {
	if !gjson.ValidBytes(data) {
		return lookup{state: lookupMalformed}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return lookup{state: lookupMalformed}
	}

	if code := root.Get("error"); code.Exists() {
		if code.Int() == lastfmNotFound {
			return lookup{state: lookupNotFound}
		}
		return lookup{state: lookupFailed, code: int(code.Int()), message: root.Get("message").String()}
	}

	body := root.Get(key)
	if !body.Exists() {
		return lookup{state: lookupNotFound}
	}
	return lookup{state: lookupFound, body: body}
}

func (s *LastFMService) call(ctx context.Context, method string, params url.Values, key string, q TrackQuery) (lookup, error) {
	fail := func(err error) (lookup, error) {
		return lookup{}, &FetchError{Op: method, Query: q, Err: err}
	}

	params.Set("method", method)
	params.Set("api_key", s.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fail(fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err))
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("last.fm request", "method", method, "artist", q.Artist, "track", q.Track)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fail(classifyTransportError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, classifyTransportError(err)))
	}

	res := parseLookup(data, key)
	switch res.state {
	case lookupFailed:
		return fail(lastfmError(res.code, res.message))
	case lookupMalformed:
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fail(fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode))
		}
		return fail(fmt.Errorf("%w: response is not a JSON object", shared.ErrMalformedResponse))
	case lookupNotFound:
		if resp.StatusCode >= 500 {
			return fail(fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode))
		}
	}

	return res, nil
}

func lastfmError(code int, message string) error {
	var kind error
	switch code {
	case lastfmRateLimited:
		kind = shared.ErrRateLimited
	case lastfmInvalidKey, lastfmSuspendedKey:
		kind = shared.ErrInvalidCredentials
	case lastfmOffline, lastfmUnavailable:
		kind = shared.ErrServiceUnavailable
	default:
		kind = shared.ErrAPIRequest
	}
	return fmt.Errorf("%w: last.fm error %d: %s", kind, code, message)
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}

// tagNames reads tag names from a toptags.tag value, which Last.fm encodes as
// an object instead of an array when there is exactly one tag.
func tagNames(v gjson.Result) TagSet {
	var raw []string
	switch {
	case v.IsArray():
		v.ForEach(func(_, tag gjson.Result) bool {
			raw = append(raw, tag.Get("name").String())
			return true
		})
	case v.IsObject():
		raw = append(raw, v.Get("name").String())
	}
	return normalizeTags(raw)
}
