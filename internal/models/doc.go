// Package models defines the records that move between genrex's services, tasks and repositories.
//
// The package contains two categories of types:
//
// 1. Transfer objects for external data
//   - [Playlist], [PlaylistExport], [Track] : Spotify playlist metadata and listings
//   - [PlaylistFolder], [PlaylistRef] : the playlist-folder JSON export read by the extractor
//   - [TrackRow] : one row of the track CSV, also the shape of a document in the Mongo collection
//
// 2. Persistent entities backed by SQLite
//   - [Resolution] : one recorded genre resolution (history)
//   - [CachedTags] : one memoized tag lookup
//
// Persistent entities implement [Model], which provides identity, timestamps and validation.
package models
