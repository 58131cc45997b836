package main

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/desertthunder/harmony/internal/tasks"
	"github.com/urfave/cli/v3"
)

// openCache opens the local cache database and ensures its schema is current.
//
// The caller owns the returned handle.
func (r *Runner) openCache() (*sql.DB, error) {
	path := r.config.Database.Path
	if path == "" {
		path = filepath.Join(shared.HarmonyDir(), "harmony.db")
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// buildEngine creates a sync engine over the cache database. Honors an engine
// injected through RunnerOpts, in which case no database is opened.
func (r *Runner) buildEngine() (tasks.SyncEngine, *sql.DB, error) {
	if r.engine != nil {
		return r.engine, nil, nil
	}

	db, err := r.openCache()
	if err != nil {
		return nil, nil, err
	}

	trackRepo := repositories.NewTrackRepository(db)
	playlistRepo := repositories.NewPlaylistRepository(db)

	engine := tasks.NewLibraryEngine(
		r.svc,
		repositories.NewTrackCacheAdapter(trackRepo),
		repositories.NewPlaylistCacheAdapter(playlistRepo, trackRepo),
	)

	return engine, db, nil
}

// SyncRun pulls the catalog and the signed-in user's playlists into the local cache.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	engine, db, err := r.buildEngine()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	r.logger.Info("starting library sync")
	r.writePlain("Syncing your library...\n\n")

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchCatalog, tasks.FetchPlaylists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CacheTracks:
				r.writePlain("   %s\n", update.Message)
			case tasks.CachePlaylists:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Sync(ctx, progressCh)
	close(progressCh)
	// Wait for buffered updates to print so the summary comes last.
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	r.writePlain("Tracks cached: %d/%d\n", result.CachedTracks, result.TotalTracks)
	r.writePlain("Playlists cached: %d/%d\n", result.CachedPlaylists, result.TotalPlaylists)

	if result.Failed() {
		r.writePlain("\n%d partial failures:\n", len(result.Failures))
		for _, failure := range result.Failures {
			r.writePlain("  - %s\n", failure)
		}
	}

	return nil
}
