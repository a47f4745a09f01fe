package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	FolderType   = "folder"
	PlaylistType = "playlist"
)

// PlaylistFolder is the playlist-folder JSON export: a named, dated group of playlists.
type PlaylistFolder struct {
	Type     string        `json:"type"`
	Name     string        `json:"name"`
	Year     FolderYear    `json:"year"`
	Children []PlaylistRef `json:"children"`
}

// PlaylistRef is a child entry of a [PlaylistFolder].
type PlaylistRef struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	Author string `json:"author"`
}

// Playlists returns children whose type is "playlist", in file order.
func (f PlaylistFolder) Playlists() []PlaylistRef {
	var refs []PlaylistRef
	for _, child := range f.Children {
		if child.Type == PlaylistType {
			refs = append(refs, child)
		}
	}
	return refs
}

// FolderYear accepts the year as either a JSON string or number.
type FolderYear string

func (y *FolderYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = FolderYear(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or number: %w", err)
	}
	*y = FolderYear(n.String())
	return nil
}
