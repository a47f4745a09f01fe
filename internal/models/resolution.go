package models

import (
	"errors"
	"time"
)

// ResolutionStatus is the outcome class of one resolution.
type ResolutionStatus string

const (
	StatusResolved ResolutionStatus = "resolved"
	StatusUnknown  ResolutionStatus = "unknown"
	StatusError    ResolutionStatus = "error"
)

// Resolution is a persisted record of one genre resolution, used for history.
type Resolution struct {
	id        string
	sequence  int
	artist    string
	track     string
	genre     string
	status    ResolutionStatus
	stage     string
	tag       string
	err       string
	source    string
	createdAt time.Time
}

// ResolutionParams holds the caller-provided fields of a [Resolution].
type ResolutionParams struct {
	Artist string
	Track  string
	Genre  string
	Status ResolutionStatus
	Stage  string
	Tag    string
	Error  string
	Source string // Command or batch that produced the record, e.g. "missing" or "enrich"
}

// NewResolution creates a new [Resolution]; the id is assigned on insert.
func NewResolution(sequence int, p ResolutionParams) *Resolution {
	return &Resolution{
		sequence:  sequence,
		artist:    p.Artist,
		track:     p.Track,
		genre:     p.Genre,
		status:    p.Status,
		stage:     p.Stage,
		tag:       p.Tag,
		err:       p.Error,
		source:    p.Source,
		createdAt: time.Now(),
	}
}

// RestoreResolution rebuilds a [Resolution] from stored columns.
func RestoreResolution(id string, sequence int, p ResolutionParams, createdAt time.Time) *Resolution {
	r := NewResolution(sequence, p)
	r.id = id
	r.createdAt = createdAt
	return r
}

func (r *Resolution) ID() string {
	return r.id
}

func (r *Resolution) Sequence() int {
	return r.sequence
}

func (r *Resolution) Artist() string {
	return r.artist
}

func (r *Resolution) Track() string {
	return r.track
}

func (r *Resolution) Genre() string {
	return r.genre
}

func (r *Resolution) Status() ResolutionStatus {
	return r.status
}

func (r *Resolution) Stage() string {
	return r.stage
}

func (r *Resolution) Tag() string {
	return r.tag
}

func (r *Resolution) ErrorMessage() string {
	return r.err
}

func (r *Resolution) Source() string {
	return r.source
}

func (r *Resolution) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Resolution) SetID(id string) {
	r.id = id
}

func (r *Resolution) SetSequence(sequence int) {
	r.sequence = sequence
}

// Validate checks that the record names a track and carries a known status.
func (r *Resolution) Validate() error {
	if r.artist == "" && r.track == "" {
		return errors.New("artist or track is required")
	}
	switch r.status {
	case StatusResolved, StatusUnknown, StatusError:
	default:
		return errors.New("invalid resolution status")
	}
	if r.genre == "" {
		return errors.New("genre is required")
	}
	return nil
}

// CachedTags is one memoized tag lookup.
type CachedTags struct {
	Kind      string // track, artist or search
	Key       string
	Tags      []string
	CreatedAt time.Time
	ExpiresAt *time.Time // nil never expires
}

// Expired reports whether the entry has expired at now.
func (c CachedTags) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}
