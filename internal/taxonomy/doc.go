// Package taxonomy maps free-form community tags onto a closed set of canonical genre labels.
//
// A [Definition] lists canonical genres with the aliases (lowercase tags) that belong to each one.
// [NewTable] inverts it into an alias → genre [Table] used for constant-time lookups:
//
//	table, err := taxonomy.NewTable(taxonomy.Default())
//	genre, ok := table.Lookup("bossa nova") // "Brazilian", true
//
// Lookups use exact equality on a lowercased key space. There is no substring or fuzzy matching,
// so "pop" never matches inside "hip-pop". Callers lowercase fetched tags before querying.
//
// Construction fails fast with an [*AmbiguousAliasError] when the same alias is registered under
// two different genres, rather than letting the later declaration win silently.
// A built [Table] is never mutated and is safe to share between goroutines.
package taxonomy
