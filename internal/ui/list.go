package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/genrex/internal/tasks"
)

var _ list.Item = resultItem{}

// resultItem wraps [tasks.ItemResult] to implement [list.Item].
type resultItem struct {
	result tasks.ItemResult
}

func (i resultItem) FilterValue() string { return i.result.Item.Query.String() }
func (i resultItem) Title() string       { return i.result.Item.Query.String() }
func (i resultItem) Description() string {
	r := i.result
	switch {
	case r.Status == tasks.StatusError && r.Err != nil:
		return fmt.Sprintf("%s • %v", r.Genre, r.Err)
	case r.Result.Tag != "":
		return fmt.Sprintf("%s • %s via %q", r.Genre, r.Result.Stage, r.Result.Tag)
	default:
		return r.Genre
	}
}

// resultItems converts outcomes to list items. With issuesOnly set, resolved items are left out.
func resultItems(results []tasks.ItemResult, issuesOnly bool) []list.Item {
	items := make([]list.Item, 0, len(results))
	for _, r := range results {
		if issuesOnly && r.Status == tasks.StatusResolved {
			continue
		}
		items = append(items, resultItem{result: r})
	}
	return items
}
