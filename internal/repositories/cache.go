package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/harmony/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Provides automatic track caching with deduplication via the remote_id
// UNIQUE constraint. A track already present is refreshed in place.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack caches a track from the backend catalog.
// An existing row is updated with the fresh data; only actual failures
// (not constraint violations) return errors.
func (a *TrackCacheAdapter) CacheTrack(track models.Track) error {
	existing, err := a.repo.GetByRemoteID(track.ID)
	if err == nil && existing != nil {
		refreshed := models.NewPersistedTrack(existing.Sequence(), track.ID, track)
		refreshed.SetID(existing.ID())
		if err := a.repo.Update(refreshed); err != nil {
			return fmt.Errorf("failed to refresh cached track: %w", err)
		}
		return nil
	}

	persistedTrack := models.NewPersistedTrack(0, track.ID, track)

	err = a.repo.Create(persistedTrack)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// PlaylistCacheAdapter implements tasks.PlaylistCacher using PlaylistRepository.
type PlaylistCacheAdapter struct {
	repo   *PlaylistRepository
	tracks *TrackRepository
}

// NewPlaylistCacheAdapter creates a new PlaylistCacheAdapter over both repositories
func NewPlaylistCacheAdapter(repo *PlaylistRepository, tracks *TrackRepository) *PlaylistCacheAdapter {
	return &PlaylistCacheAdapter{repo: repo, tracks: tracks}
}

// CachePlaylist caches a playlist and its membership. Track rows must already
// be cached; unknown members are skipped rather than failing the playlist.
func (a *PlaylistCacheAdapter) CachePlaylist(playlist models.Playlist, trackRemoteIDs []string) error {
	existing, err := a.repo.GetByRemoteID(playlist.ID)

	var cacheID string
	if err == nil && existing != nil {
		refreshed := models.NewPersistedPlaylist(existing.Sequence(), playlist.ID, playlist)
		refreshed.SetID(existing.ID())
		if err := a.repo.Update(refreshed); err != nil {
			return fmt.Errorf("failed to refresh cached playlist: %w", err)
		}
		cacheID = existing.ID()
	} else {
		persisted := models.NewPersistedPlaylist(0, playlist.ID, playlist)
		if err := a.repo.Create(persisted); err != nil {
			if !strings.Contains(err.Error(), "UNIQUE constraint") {
				return fmt.Errorf("failed to cache playlist: %w", err)
			}
			winner, err := a.repo.GetByRemoteID(playlist.ID)
			if err != nil {
				return fmt.Errorf("failed to cache playlist: %w", err)
			}
			persisted.SetID(winner.ID())
		}
		cacheID = persisted.ID()
	}

	var memberIDs []string
	for _, remoteID := range trackRemoteIDs {
		track, err := a.tracks.GetByRemoteID(remoteID)
		if err != nil || track == nil {
			continue
		}
		memberIDs = append(memberIDs, track.ID())
	}

	if err := a.repo.SetTracks(cacheID, memberIDs); err != nil {
		return fmt.Errorf("failed to cache playlist membership: %w", err)
	}

	return nil
}
