// Package repositories implements genrex's persistence: SQLite for the tag cache and resolution history,
// MongoDB for the track documents whose genres are being filled in.
//
// Key Implementations:
//   - [TagCacheRepository] : memoized Last.fm lookups with expiry, implements services.TagCache
//   - [ResolutionRepository] : append-only history of genre resolutions
//   - [ResolutionRecorder] : adapts ResolutionRepository to tasks.Recorder for batch runs
//   - [DocumentStore] : the Mongo collection queried for missing genres, implements tasks.Sink
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
