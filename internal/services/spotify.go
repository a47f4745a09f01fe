// Spotify Web API client used by the playlist extractor
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
	spotifyPageSize = 100
)

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	ExternalIDs externalIDs     `json:"external_ids"`
	URI         string          `json:"uri"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for local files and tracks removed from the catalogue.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPlaylistTracks is one page of playlist items.
type SpotifyPlaylistTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Owner       Owner                 `json:"owner"`
	Public      bool                  `json:"public"`
	Tracks      SpotifyPlaylistTracks `json:"tracks"`
	URI         string                `json:"uri"`
}

// SpotifyService reads playlists from the Spotify Web API.
//
// Authentication uses the client-credentials grant, which is enough for public and
// collaborative playlists, or a caller-supplied access token.
type SpotifyService struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	baseURL    string
	authed     bool
}

// NewSpotifyService creates a new Spotify service with the given application credentials.
//
// Recognized keys: client_id, client_secret, and optionally token_url and base_url.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	tokenURL := credentials["token_url"]
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	baseURL := strings.TrimSuffix(credentials["base_url"], "/")
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	return &SpotifyService{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate prepares the HTTP client. An "access_token" in credentials is used as-is;
// otherwise the client-credentials grant is used and tokens are fetched and refreshed lazily.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken := credentials["access_token"]; accessToken != "" {
		token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
		s.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
		s.authed = true
		return nil
	}

	s.httpClient = s.config.Client(ctx)
	s.authed = true
	return nil
}

// doRequest performs an authenticated GET. endpoint is either a path below the API root
// or an absolute URL (pagination links).
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if !s.authed {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = s.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrPlaylistNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", shared.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// Playlist retrieves a playlist by ID, including the first page of its tracks.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "/playlists/"+url.PathEscape(playlistID), &playlist); err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}
	return &playlist, nil
}

// GetPlaylist retrieves playlist metadata, including the owner's display name.
func (s *SpotifyService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	sp, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	p := toPlaylist(*sp)
	return &p, nil
}

// PlaylistTracks retrieves every item of a playlist, following next links until exhausted.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]SpotifyPlaylistTrack, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d", url.PathEscape(playlistID), spotifyPageSize)

	var items []SpotifyPlaylistTrack
	for endpoint != "" {
		var page SpotifyPlaylistTracks
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, fmt.Errorf("playlist %s tracks: %w", playlistID, err)
		}
		items = append(items, page.Items...)

		endpoint = ""
		if page.Next != nil {
			endpoint = *page.Next
		}
	}
	return items, nil
}

// ExportPlaylist exports a playlist with all its tracks. Items without a track are skipped.
func (s *SpotifyService) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	sp, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	items, err := s.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	playlist := toPlaylist(*sp)

	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		tracks = append(tracks, toTrack(*item.Track))
	}

	return &models.PlaylistExport{Playlist: playlist, Tracks: tracks}, nil
}

func toPlaylist(sp SpotifyPlaylist) models.Playlist {
	return models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Owner:       sp.Owner.DisplayName,
		TrackCount:  sp.Tracks.Total,
		Public:      sp.Public,
	}
}

func toTrack(st SpotifyTrack) models.Track {
	track := models.Track{
		ID:         st.ID,
		Title:      st.Name,
		Album:      st.Album.Name,
		DurationMS: st.DurationMS,
		ISRC:       st.ExternalIDs.ISRC,
	}
	for _, a := range st.Artists {
		track.Artists = append(track.Artists, a.Name)
	}
	if len(track.Artists) > 0 {
		track.Artist = track.Artists[0]
	}
	return track
}
