package taxonomy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// CanonicalGenre is a human-readable genre label from a fixed enumeration.
type CanonicalGenre string

// Unknown is returned when no taxonomy entry matches any fetched tag.
const Unknown CanonicalGenre = "Unknown"

func (g CanonicalGenre) String() string { return string(g) }

var (
	ErrEmptyGenre    = errors.New("genre name is empty")
	ErrEmptyAlias    = errors.New("alias is empty")
	ErrReservedGenre = fmt.Errorf("%q is reserved and cannot be defined", Unknown)
)

// Family is one canonical genre and the aliases registered under it.
type Family struct {
	Genre   CanonicalGenre `toml:"name" json:"genre"`
	Aliases []string       `toml:"aliases" json:"aliases"`
}

// Definition is an ordered list of genre families.
type Definition []Family

// Conflict describes one alias registered under more than one genre.
type Conflict struct {
	Alias  string
	Genres []CanonicalGenre
}

// AmbiguousAliasError lists every alias that appears under more than one genre.
type AmbiguousAliasError struct {
	Conflicts []Conflict
}

func (e *AmbiguousAliasError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		names := make([]string, len(c.Genres))
		for i, g := range c.Genres {
			names[i] = string(g)
		}
		parts = append(parts, fmt.Sprintf("%q (%s)", c.Alias, strings.Join(names, ", ")))
	}
	return fmt.Sprintf("ambiguous taxonomy aliases: %s", strings.Join(parts, "; "))
}

// Table is an immutable alias → genre index built from a [Definition].
type Table struct {
	index    map[string]CanonicalGenre
	genres   []CanonicalGenre
	byFamily map[CanonicalGenre][]string
}

// NewTable validates def and inverts it.
//
// Aliases are trimmed and lowercased. Repeating an alias inside one family is allowed;
// registering it under two families is reported through [*AmbiguousAliasError].
func NewTable(def Definition) (*Table, error) {
	t := &Table{
		index:    make(map[string]CanonicalGenre),
		byFamily: make(map[CanonicalGenre][]string),
	}

	owners := make(map[string][]CanonicalGenre)
	var order []string

	for _, family := range def {
		genre := CanonicalGenre(strings.TrimSpace(string(family.Genre)))
		if genre == "" {
			return nil, ErrEmptyGenre
		}
		if strings.EqualFold(string(genre), string(Unknown)) {
			return nil, ErrReservedGenre
		}
		if _, seen := t.byFamily[genre]; !seen {
			t.genres = append(t.genres, genre)
			t.byFamily[genre] = nil
		}

		for _, raw := range family.Aliases {
			alias := normalize(raw)
			if alias == "" {
				return nil, fmt.Errorf("%w in genre %q", ErrEmptyAlias, genre)
			}

			prev, seen := owners[alias]
			if !seen {
				order = append(order, alias)
			}
			if slices.Contains(prev, genre) {
				continue
			}
			owners[alias] = append(prev, genre)
			t.byFamily[genre] = append(t.byFamily[genre], alias)
			t.index[alias] = genre
		}
	}

	var conflicts []Conflict
	for _, alias := range order {
		if genres := owners[alias]; len(genres) > 1 {
			conflicts = append(conflicts, Conflict{Alias: alias, Genres: genres})
		}
	}
	if len(conflicts) > 0 {
		return nil, &AmbiguousAliasError{Conflicts: conflicts}
	}

	return t, nil
}

// MustTable is like [NewTable] but panics on an invalid definition.
func MustTable(def Definition) *Table {
	t, err := NewTable(def)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the genre registered for tag. The tag must already be lowercase.
func (t *Table) Lookup(tag string) (CanonicalGenre, bool) {
	g, ok := t.index[tag]
	return g, ok
}

// FirstMatch scans tags in order and returns the genre of the first tag with an entry,
// along with that tag. Later tags are never consulted, even if they map elsewhere.
func (t *Table) FirstMatch(tags []string) (CanonicalGenre, string, bool) {
	for _, tag := range tags {
		if g, ok := t.Lookup(tag); ok {
			return g, tag, true
		}
	}
	return Unknown, "", false
}

// Genres returns the canonical genres in definition order.
func (t *Table) Genres() []CanonicalGenre {
	return slices.Clone(t.genres)
}

// Aliases returns the aliases registered under genre in definition order.
func (t *Table) Aliases(genre CanonicalGenre) []string {
	return slices.Clone(t.byFamily[genre])
}

// Len returns the number of distinct aliases.
func (t *Table) Len() int {
	return len(t.index)
}

// Definition rebuilds the (normalized) definition the table was built from.
func (t *Table) Definition() Definition {
	def := make(Definition, 0, len(t.genres))
	for _, g := range t.genres {
		def = append(def, Family{Genre: g, Aliases: t.Aliases(g)})
	}
	return def
}

func normalize(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}
