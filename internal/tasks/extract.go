package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
)

var (
	playlistURIPattern = regexp.MustCompile(`playlist:([a-zA-Z0-9]+)`)
	playlistURLPattern = regexp.MustCompile(`open\.spotify\.com/(?:[a-z-]+/)?playlist/([a-zA-Z0-9]+)`)
)

// ExtractPlaylistID returns the id of a spotify:playlist:<id> URI or an open.spotify.com playlist URL.
func ExtractPlaylistID(uri string) (string, error) {
	if m := playlistURIPattern.FindStringSubmatch(uri); m != nil {
		return m[1], nil
	}
	if m := playlistURLPattern.FindStringSubmatch(uri); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: invalid Spotify playlist URI: %s", shared.ErrInvalidArgument, uri)
}

// ParseFolder decodes and validates a playlist-folder JSON export.
func ParseFolder(data []byte) (*models.PlaylistFolder, error) {
	var folder models.PlaylistFolder
	if err := json.Unmarshal(data, &folder); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if err := validateFolder(folder.Type, folder.Name, string(folder.Year)); err != nil {
		return nil, err
	}
	return &folder, nil
}

func validateFolder(kind, name, year string) error {
	switch {
	case kind != models.FolderType:
		return fmt.Errorf("%w: JSON file must contain a folder structure", shared.ErrInvalidInput)
	case name == "":
		return fmt.Errorf("%w: folder name is required", shared.ErrInvalidInput)
	case year == "":
		return fmt.Errorf("%w: year is required", shared.ErrInvalidInput)
	}
	return nil
}

// TrackFileName is the CSV written for a folder: "<folder>_tracks.csv".
func TrackFileName(folderName string) string {
	return folderName + "_tracks.csv"
}

// BuildRows flattens one playlist export into track rows. trackNumber is the 0-based position.
func BuildRows(folder *models.PlaylistFolder, export *models.PlaylistExport, author string) []models.TrackRow {
	rows := make([]models.TrackRow, 0, len(export.Tracks))
	for i, t := range export.Tracks {
		rows = append(rows, models.TrackRow{
			Year:           string(folder.Year),
			PlaylistFolder: folder.Name,
			Playlist:       export.Playlist.Name,
			Track:          t.Title,
			Album:          t.Album,
			Artist:         t.Artist,
			Duration:       t.DurationMS,
			Time:           shared.FormatDuration(t.DurationMS),
			TrackNumber:    i,
			Author:         author,
		})
	}
	return rows
}

// PlaylistSource provides playlist metadata and listings; [*services.SpotifyService] implements it.
type PlaylistSource interface {
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
	ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error)
}

// ExtractResult is the output of [Extractor.Extract].
type ExtractResult struct {
	Folder    *models.PlaylistFolder
	Rows      []models.TrackRow
	Playlists int // Playlist children processed
	Children  int // All children in the folder
}

// OwnerUpdate records one author rewrite performed by [Extractor.UpdateOwners].
type OwnerUpdate struct {
	URI      string
	Playlist string
	Previous string
	Owner    string
}

// Extractor reads playlist folders through a [PlaylistSource].
type Extractor struct {
	source PlaylistSource
	logger *log.Logger
}

// NewExtractor creates an [Extractor]. A nil logger uses the default logger.
func NewExtractor(source PlaylistSource, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{source: source, logger: logger}
}

// Extract fetches every playlist child of folder and returns its tracks as rows.
// Children that are not playlists are skipped. Any fetch failure aborts the extraction.
func (e *Extractor) Extract(ctx context.Context, folder *models.PlaylistFolder, progress chan<- ProgressUpdate) (*ExtractResult, error) {
	refs := folder.Playlists()
	result := &ExtractResult{Folder: folder, Children: len(folder.Children)}

	for i, ref := range refs {
		id, err := ExtractPlaylistID(ref.URI)
		if err != nil {
			return result, err
		}

		sendProgress(progress, fetchPlaylistUpdate(i+1, len(refs), ref.URI))

		export, err := e.source.ExportPlaylist(ctx, id)
		if err != nil {
			return result, fmt.Errorf("failed to export playlist %s: %w", id, err)
		}

		rows := BuildRows(folder, export, ref.Author)
		result.Rows = append(result.Rows, rows...)
		result.Playlists++

		e.logger.Info("extracted playlist", "playlist", export.Playlist.Name, "author", ref.Author, "tracks", len(rows))
		sendProgress(progress, extractedPlaylistUpdate(i+1, len(refs), export.Playlist.Name, ref.Author, len(rows)))
	}

	return result, nil
}

// UpdateOwners rewrites the author of every playlist child in a folder document with the playlist
// owner's display name and returns the re-encoded document (4 space indent). Fields the extractor
// does not model are preserved.
func (e *Extractor) UpdateOwners(ctx context.Context, data []byte, progress chan<- ProgressUpdate) ([]byte, []OwnerUpdate, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	kind, _ := doc["type"].(string)
	name, _ := doc["name"].(string)
	if err := validateFolder(kind, name, yearString(doc["year"])); err != nil {
		return nil, nil, err
	}

	children, _ := doc["children"].([]any)
	var updates []OwnerUpdate
	for i, raw := range children {
		child, ok := raw.(map[string]any)
		if !ok || child["type"] != models.PlaylistType {
			continue
		}

		uri, _ := child["uri"].(string)
		id, err := ExtractPlaylistID(uri)
		if err != nil {
			return nil, updates, err
		}

		playlist, err := e.source.GetPlaylist(ctx, id)
		if err != nil {
			return nil, updates, fmt.Errorf("failed to fetch playlist %s: %w", id, err)
		}

		previous, _ := child["author"].(string)
		child["author"] = playlist.Owner

		u := OwnerUpdate{URI: uri, Playlist: playlist.Name, Previous: previous, Owner: playlist.Owner}
		updates = append(updates, u)
		e.logger.Info("updated playlist owner", "playlist", playlist.Name, "owner", playlist.Owner)
		sendProgress(progress, ownerUpdate(i+1, len(children), u))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, updates, fmt.Errorf("failed to encode folder: %w", err)
	}
	return buf.Bytes(), updates, nil
}

func yearString(v any) string {
	switch y := v.(type) {
	case string:
		return y
	case json.Number:
		return y.String()
	case float64:
		return strconv.FormatFloat(y, 'f', -1, 64)
	default:
		return ""
	}
}
