// Package repositories implements SQLite persistence for the local music cache.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [TrackRepository] : Catalog track caching with remote-id lookups
//   - [PlaylistRepository] : Playlist caching with membership via the playlist_tracks junction table
//   - [PlayRepository] : Local listening history, append-mostly
//   - [TrackCacheAdapter] / [PlaylistCacheAdapter] : tasks-facing caching with UNIQUE-constraint deduplication
//
// The cache holds whatever the backend last returned; nothing in it is
// authoritative, and a sync pass may recreate any of it. Sequence numbers
// provide stable, human-readable ordering independent of UUIDs and creation
// timestamps. The [NextSequence] function atomically increments per-table
// sequence counters in dedicated sequence tables.
package repositories
