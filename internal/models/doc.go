// Package models defines domain entities and persistence interfaces for the Harmony terminal client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing backend data
//   - [Track] : Song metadata including stream and cover URLs
//   - [Playlist] : Basic playlist metadata
//   - [PlaylistDetail] : Playlist with complete track listing
//
// 2. Persistent Entities: Database-backed models for the local cache
//   - [PersistedTrack] : Cached catalog tracks keyed by their backend id
//   - [PersistedPlaylist] : Cached playlists with membership junction rows
//   - [Play] : Local listening-history records
//
// All persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
