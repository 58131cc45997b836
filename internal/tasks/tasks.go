// package tasks implements long-running library operations against the Harmony backend.
//
// The core abstraction is SyncEngine, which pulls the remote catalog and the
// signed-in user's playlists into the local SQLite cache. Operations emit
// progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
	"golang.org/x/time/rate"
)

// defaultDetailRate caps playlist-detail fetches during a sync pass.
const defaultDetailRate = 5.0

// SyncResult summarizes a completed library sync.
type SyncResult struct {
	TotalTracks     int      // Catalog tracks seen on the backend
	CachedTracks    int      // Tracks written or refreshed in the cache
	TotalPlaylists  int      // Playlists seen on the backend
	CachedPlaylists int      // Playlists written or refreshed in the cache
	Failures        []string // Human-readable descriptions of partial failures
}

// Failed reports whether any part of the sync did not complete.
func (r *SyncResult) Failed() bool {
	return len(r.Failures) > 0
}

// TrackCacher persists catalog tracks locally.
type TrackCacher interface {
	CacheTrack(track models.Track) error
}

// PlaylistCacher persists playlists and their membership locally.
type PlaylistCacher interface {
	CachePlaylist(playlist models.Playlist, trackRemoteIDs []string) error
}

// SyncEngine defines operations for syncing the remote library into the local cache.
type SyncEngine interface {
	// Sync pulls the public catalog and the signed-in user's playlists into
	// the cache. Partial failures are collected rather than aborting the pass.
	Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error)
}

// LibraryEngine implements SyncEngine over the Harmony service and the cache adapters.
type LibraryEngine struct {
	svc       services.Service
	tracks    TrackCacher
	playlists PlaylistCacher
	limiter   *rate.Limiter
}

// NewLibraryEngine creates a LibraryEngine with the provided service and cachers.
func NewLibraryEngine(svc services.Service, tracks TrackCacher, playlists PlaylistCacher) *LibraryEngine {
	return &LibraryEngine{
		svc:       svc,
		tracks:    tracks,
		playlists: playlists,
		limiter:   rate.NewLimiter(rate.Limit(defaultDetailRate), 1),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Sync pulls the catalog and playlists into the local cache.
func (e *LibraryEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if e.tracks == nil || e.playlists == nil {
		return nil, fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	}

	result := &SyncResult{}

	e.sendProgress(progress, fetchCatalogUpdate(1, 1))

	catalog, err := e.svc.ListMusic(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch catalog: %v", shared.ErrAPIRequest, err)
	}
	result.TotalTracks = len(catalog)

	for i, track := range catalog {
		e.sendProgress(progress, cacheTrackUpdate(i+1, len(catalog), track))

		if err := e.tracks.CacheTrack(track); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("track %s: %v", track.ID, err))
			continue
		}
		result.CachedTracks++
	}

	e.sendProgress(progress, fetchPlaylistsUpdate(1, 1))

	playlists, err := e.svc.Playlists(ctx)
	if err != nil {
		// An anonymous session still syncs the public catalog.
		result.Failures = append(result.Failures, fmt.Sprintf("playlists: %v", err))
		e.sendProgress(progress, doneUpdate(result))
		return result, nil
	}
	result.TotalPlaylists = len(playlists)

	for i, playlist := range playlists {
		e.sendProgress(progress, cachePlaylistUpdate(i+1, len(playlists), playlist.Name))

		if err := e.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("sync cancelled: %w", err)
		}

		detail, err := e.svc.PlaylistDetail(ctx, playlist.ID)
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("playlist %s: %v", playlist.ID, err))
			continue
		}

		memberIDs := make([]string, 0, len(detail.Tracks))
		for _, track := range detail.Tracks {
			// Playlist members may not be in the public catalog response.
			if err := e.tracks.CacheTrack(track); err != nil {
				result.Failures = append(result.Failures, fmt.Sprintf("track %s: %v", track.ID, err))
				continue
			}
			memberIDs = append(memberIDs, track.ID)
		}

		if err := e.playlists.CachePlaylist(detail.Playlist, memberIDs); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("playlist %s: %v", playlist.ID, err))
			continue
		}
		result.CachedPlaylists++
	}

	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}
