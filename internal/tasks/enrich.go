package tasks

import (
	"strconv"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
)

// RowItems converts track rows into batch items. With onlyMissing set, rows that already carry a
// genre are skipped. Each item's Payload is the row's index in rows.
func RowItems(rows []models.TrackRow, onlyMissing bool) []Item {
	items := make([]Item, 0, len(rows))
	for i, row := range rows {
		if onlyMissing && !shared.IsBlank(row.Genre) {
			continue
		}
		items = append(items, Item{
			ID:      strconv.Itoa(i),
			Query:   services.TrackQuery{Artist: row.Artist, Track: row.Track},
			Payload: i,
		})
	}
	return items
}

// ApplyGenres writes batch outcomes back into rows produced by [RowItems].
//
// Resolved and unknown items get their genre. Failed items are left blank so a later run retries them.
// It returns the number of rows changed.
func ApplyGenres(rows []models.TrackRow, res *BatchResult) int {
	changed := 0
	for _, r := range res.Results {
		i, ok := r.Item.Payload.(int)
		if !ok || i < 0 || i >= len(rows) || r.Status == StatusError {
			continue
		}
		rows[i].Genre = r.Genre
		changed++
	}
	return changed
}
