// Package services implements the HTTP collaborators used by genrex: Last.fm for community tags and Spotify for playlists.
//
// # Tag Fetcher
//
// [TagFetcher] is the boundary between the genre resolver and the tag source. [LastFMService] implements it with
// three Last.fm methods: track.getInfo, artist.getTopTags and track.search.
//
// Response bodies are classified once, at the fetch boundary, into found, not found or malformed. Last.fm error code 6
// and bodies missing the expected key are "not found" and surface as an empty [TagSet] with a nil error.
// Every other failure is a [*FetchError]:
//   - [shared.ErrTimeout] : the per-call deadline (default 10s) elapsed
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status without a Last.fm payload
//   - [shared.ErrMalformedResponse] : the body is not a JSON object
//   - [shared.ErrInvalidCredentials], [shared.ErrRateLimited], [shared.ErrServiceUnavailable] : Last.fm error codes
//
// Tags are lowercased and kept in the order the service returned them.
//
// # Caching
//
// [CachedTagFetcher] decorates any [TagFetcher] with a [TagCache] (the SQLite tag_cache table in practice).
// Cache errors are logged and never change a result.
//
// # Spotify
//
// [SpotifyService] uses the OAuth2 client-credentials grant via [clientcredentials.Config], or a supplied access token,
// and reads playlists with pagination for the playlist extractor.
package services
