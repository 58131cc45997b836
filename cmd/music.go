package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/urfave/cli/v3"
)

// MusicList lists the public catalog with an optional limit.
func (r *Runner) MusicList(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	limit := cmd.Int("limit")
	r.logger.Infof("listing catalog with limit %v", limit)

	tracks, err := r.svc.ListMusic(ctx)
	if err != nil {
		return err
	}

	if limit > 0 && limit < len(tracks) {
		tracks = tracks[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	r.writeTracks(tracks)
	return nil
}

// MusicSearch searches songs and artists.
func (r *Runner) MusicSearch(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	r.logger.Infof("searching catalog for %q", query)

	tracks, err := r.svc.SearchMusic(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d tracks for %q:\n\n", len(tracks), query)
	r.writeTracks(tracks)
	return nil
}

// MusicInfo shows a single track with its stream URL.
func (r *Runner) MusicInfo(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	track, err := r.svc.MusicDetails(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("%s - %s\n", track.Artist, track.Title)
	if track.Album != "" {
		r.writePlain("Album: %s\n", track.Album)
	}
	if track.Genre != "" {
		r.writePlain("Genre: %s\n", track.Genre)
	}
	if track.Duration > 0 {
		r.writePlain("Duration: %d:%02d\n", track.Duration/60, track.Duration%60)
	}
	if track.AudioURL != "" {
		r.writePlain("Stream: %s\n", track.AudioURL)
	}
	return nil
}

// MusicMine lists the signed-in artist's own uploads.
func (r *Runner) MusicMine(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}
	if _, err := r.requireArtist(); err != nil {
		return err
	}

	tracks, err := r.svc.ArtistMusic(ctx)
	if err != nil {
		return err
	}

	r.writePlain("You have %d uploads:\n\n", len(tracks))
	r.writeTracks(tracks)
	return nil
}

// MusicUpload uploads a new track with its audio and cover files.
func (r *Runner) MusicUpload(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}
	if _, err := r.requireArtist(); err != nil {
		return err
	}

	input := services.UploadInput{
		Title:     cmd.String("title"),
		Artist:    cmd.String("artist"),
		Album:     cmd.String("album"),
		Genre:     cmd.String("genre"),
		AudioPath: cmd.String("audio"),
		CoverPath: cmd.String("cover"),
	}

	r.logger.Infof("uploading %q from %v", input.Title, input.AudioPath)

	track, err := r.svc.UploadMusic(ctx, input)
	if err != nil {
		return err
	}

	r.writePlain("✓ Uploaded %s\n", track.Title)
	if track.ID != "" {
		r.writePlain("ID: %s\n", track.ID)
	}
	return nil
}

// MusicDelete removes one of the artist's own tracks.
func (r *Runner) MusicDelete(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}
	if _, err := r.requireArtist(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	if err := r.svc.DeleteMusic(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Deleted track %s\n", id)
}

// writeTracks prints a numbered track listing.
func (r *Runner) writeTracks(tracks []models.Track) {
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Title)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
		r.writePlain("   ID: %s\n", track.ID)
		r.writePlain("\n")
	}
}
