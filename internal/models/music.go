package models

import (
	"fmt"
	"time"
)

// Track represents a song in the Harmony catalog
type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Genre    string
	Duration int // Duration in seconds
	AudioURL string
	CoverURL string
}

// Playlist represents a user playlist
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// PlaylistDetail represents a playlist with its full track listing
type PlaylistDetail struct {
	Playlist Playlist
	Tracks   []Track
}

// entity carries the shared persistence fields for cached records.
type entity struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func (e *entity) ID() string                { return e.id }
func (e *entity) Sequence() int             { return e.sequence }
func (e *entity) CreatedAt() time.Time      { return e.createdAt }
func (e *entity) UpdatedAt() time.Time      { return e.updatedAt }
func (e *entity) DeletedAt() *time.Time     { return e.deletedAt }
func (e *entity) SetID(id string)           { e.id = id }
func (e *entity) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *entity) SetDeletedAt(t *time.Time) { e.deletedAt = t }

// PersistedTrack is a catalog track cached in the local database.
type PersistedTrack struct {
	entity
	remoteID string
	track    Track
}

// NewPersistedTrack creates a cache record for a backend track.
func NewPersistedTrack(sequence int, remoteID string, track Track) *PersistedTrack {
	now := time.Now()
	return &PersistedTrack{
		entity:   entity{sequence: sequence, createdAt: now, updatedAt: now},
		remoteID: remoteID,
		track:    track,
	}
}

func (p *PersistedTrack) RemoteID() string { return p.remoteID }
func (p *PersistedTrack) Track() Track     { return p.track }

// Validate checks the record carries the fields the cache indexes on.
func (p *PersistedTrack) Validate() error {
	if p.id == "" {
		return fmt.Errorf("track record has no id")
	}
	if p.remoteID == "" {
		return fmt.Errorf("track record has no remote id")
	}
	if p.track.Title == "" {
		return fmt.Errorf("track record has no title")
	}
	return nil
}

// PersistedPlaylist is a playlist cached in the local database.
type PersistedPlaylist struct {
	entity
	remoteID string
	playlist Playlist
}

// NewPersistedPlaylist creates a cache record for a backend playlist.
func NewPersistedPlaylist(sequence int, remoteID string, playlist Playlist) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		entity:   entity{sequence: sequence, createdAt: now, updatedAt: now},
		remoteID: remoteID,
		playlist: playlist,
	}
}

func (p *PersistedPlaylist) RemoteID() string   { return p.remoteID }
func (p *PersistedPlaylist) Playlist() Playlist { return p.playlist }

// Validate checks the record carries the fields the cache indexes on.
func (p *PersistedPlaylist) Validate() error {
	if p.id == "" {
		return fmt.Errorf("playlist record has no id")
	}
	if p.remoteID == "" {
		return fmt.Errorf("playlist record has no remote id")
	}
	if p.playlist.Name == "" {
		return fmt.Errorf("playlist record has no name")
	}
	return nil
}

// Play is a local listening-history record.
type Play struct {
	entity
	trackRemoteID string
	title         string
	artist        string
	playedAt      time.Time
}

// NewPlay records that a track was played now.
func NewPlay(sequence int, trackRemoteID, title, artist string) *Play {
	now := time.Now()
	return &Play{
		entity:        entity{sequence: sequence, createdAt: now, updatedAt: now},
		trackRemoteID: trackRemoteID,
		title:         title,
		artist:        artist,
		playedAt:      now,
	}
}

func (p *Play) TrackRemoteID() string   { return p.trackRemoteID }
func (p *Play) Title() string           { return p.title }
func (p *Play) Artist() string          { return p.artist }
func (p *Play) PlayedAt() time.Time     { return p.playedAt }
func (p *Play) SetPlayedAt(t time.Time) { p.playedAt = t }

// Validate checks the play references a track.
func (p *Play) Validate() error {
	if p.id == "" {
		return fmt.Errorf("play record has no id")
	}
	if p.trackRemoteID == "" {
		return fmt.Errorf("play record has no track reference")
	}
	return nil
}
