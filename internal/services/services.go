// package services defines the HTTP collaborators genrex talks to
//
// Last.fm (tags), Spotify (playlists)
package services

import (
	"context"
	"fmt"
	"strings"
)

// TagSet is an ordered list of lowercase tags, most relevant first as reported by the service.
type TagSet []string

// TrackQuery identifies a track by the artist and title strings as they appear in the source record.
type TrackQuery struct {
	Artist string `json:"artist"`
	Track  string `json:"track"`
}

func (q TrackQuery) String() string {
	return q.Artist + " - " + q.Track
}

// TagFetcher retrieves community tags for tracks and artists.
//
// A service-reported "not found" is an empty [TagSet] with a nil error. Transport, timeout and
// malformed-response failures are returned as [*FetchError].
type TagFetcher interface {
	// TrackTags returns the tags of a single track.
	TrackTags(ctx context.Context, artist, track string) (TagSet, error)

	// ArtistTags returns the tags of an artist.
	ArtistTags(ctx context.Context, artist string) (TagSet, error)

	// SearchBestMatch returns the top-ranked correction for a possibly misspelled query,
	// or nil when the search has no results.
	SearchBestMatch(ctx context.Context, artist, track string) (*TrackQuery, error)
}

// FetchError reports a failed call to a tag service.
type FetchError struct {
	Op    string // track.getInfo, artist.getTopTags, track.search
	Query TrackQuery
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Query.String(), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// normalizeTags lowercases and trims tags, dropping empty ones. Order is preserved.
func normalizeTags(raw []string) TagSet {
	tags := make(TagSet, 0, len(raw))
	for _, t := range raw {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
