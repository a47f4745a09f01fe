// Package tasks runs genrex's long-running operations with non-blocking progress reporting.
//
// # Batch Driver
//
// [BatchEngine.Run] resolves a list of [Item] values through a [Resolver]:
//   - one worker by default (strictly sequential), up to 10 with [BatchOpts.Workers]
//   - an optional token bucket ([BatchOpts.RateLimit]) spaces admissions
//   - results are collected in submission order
//   - a failed lookup is recorded as [StatusError] with genre "error"; the batch keeps going
//   - an optional [Sink] stores resolved genres and an optional [Recorder] keeps history
//
// # Playlist Extraction
//
// [Extractor] reads a playlist-folder JSON export, fetches every playlist through a [PlaylistSource]
// and flattens the tracks into [models.TrackRow] values. [Extractor.UpdateOwners] rewrites the author
// of each playlist child with the playlist owner's display name.
//
// # Progress Reporting
//
// All operations accept a send-only [ProgressUpdate] channel and never block on it: updates are
// dropped when the channel is full. Batch updates carry the [ItemResult] in Data and a
// "[i/n] artist - track → genre" message.
package tasks
