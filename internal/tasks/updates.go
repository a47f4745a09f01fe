package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveGenres Phase = iota
	FetchPlaylist
	ExtractTracks
	UpdateOwners
	Complete
)

func (p Phase) String() string {
	switch p {
	case ResolveGenres:
		return "resolve_genres"
	case FetchPlaylist:
		return "fetch_playlist"
	case ExtractTracks:
		return "extract_tracks"
	case UpdateOwners:
		return "update_owners"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

// ProgressLine formats "[i/n] artist - track → genre".
func ProgressLine(step, total int, r ItemResult) string {
	return fmt.Sprintf("[%d/%d] %s - %s → %s", step, total, r.Item.Query.Artist, r.Item.Query.Track, r.Genre)
}

func resolvedUpdate(step, total int, r ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveGenres,
		Step:    step,
		Total:   total,
		Message: ProgressLine(step, total, r),
		Data:    r,
	}
}

func batchCompleteUpdate(res *BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    res.Total,
		Total:   res.Total,
		Message: fmt.Sprintf("Resolved %d, unknown %d, failed %d", res.Resolved, res.Unknown, res.Failed),
		Data:    res,
	}
}

func fetchPlaylistUpdate(step, total int, uri string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching playlist %s...", step, total, uri),
	}
}

func extractedPlaylistUpdate(step, total int, name, author string, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s by %s: %d tracks", step, total, name, author, tracks),
	}
}

func ownerUpdate(step, total int, u OwnerUpdate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateOwners,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Updated owner for playlist %s: %s", u.Playlist, u.Owner),
		Data:    u,
	}
}
