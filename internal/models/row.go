package models

import "strconv"

// TrackHeaders are the track CSV columns in output order.
var TrackHeaders = []string{
	"year", "playlistFolder", "playlist", "track", "album", "artist",
	"albumArtist", "duration", "time", "genre", "trackNumber", "author",
}

// TrackRow is one extracted track. Field tags double as the Mongo document keys.
type TrackRow struct {
	Year           string `json:"year" bson:"year,omitempty"`
	PlaylistFolder string `json:"playlistFolder" bson:"playlistFolder,omitempty"`
	Playlist       string `json:"playlist" bson:"playlist,omitempty"`
	Track          string `json:"track" bson:"track,omitempty"`
	Album          string `json:"album" bson:"album,omitempty"`
	Artist         string `json:"artist" bson:"artist,omitempty"`
	AlbumArtist    string `json:"albumArtist" bson:"albumArtist,omitempty"`
	Duration       int    `json:"duration" bson:"duration,omitempty"` // milliseconds
	Time           string `json:"time" bson:"time,omitempty"`         // M:SS
	Genre          string `json:"genre" bson:"genre,omitempty"`
	TrackNumber    int    `json:"trackNumber" bson:"trackNumber"` // 0-based position in the playlist
	Author         string `json:"author" bson:"author,omitempty"`
}

// Record renders the row in [TrackHeaders] order.
func (r TrackRow) Record() []string {
	return []string{
		r.Year,
		r.PlaylistFolder,
		r.Playlist,
		r.Track,
		r.Album,
		r.Artist,
		r.AlbumArtist,
		strconv.Itoa(r.Duration),
		r.Time,
		r.Genre,
		strconv.Itoa(r.TrackNumber),
		r.Author,
	}
}

// Field returns the value of the named column, or "" when the name is not a track column.
func (r TrackRow) Field(name string) string {
	for i, h := range TrackHeaders {
		if h == name {
			return r.Record()[i]
		}
	}
	return ""
}

// SetField assigns the named column from its CSV text. Unknown names and unparsable numbers are ignored.
func (r *TrackRow) SetField(name, value string) {
	switch name {
	case "year":
		r.Year = value
	case "playlistFolder":
		r.PlaylistFolder = value
	case "playlist":
		r.Playlist = value
	case "track":
		r.Track = value
	case "album":
		r.Album = value
	case "artist":
		r.Artist = value
	case "albumArtist":
		r.AlbumArtist = value
	case "duration":
		if n, err := strconv.Atoi(value); err == nil {
			r.Duration = n
		}
	case "time":
		r.Time = value
	case "genre":
		r.Genre = value
	case "trackNumber":
		if n, err := strconv.Atoi(value); err == nil {
			r.TrackNumber = n
		}
	case "author":
		r.Author = value
	}
}
