package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/harmony/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList lists the signed-in user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	playlists, err := r.svc.Playlists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// PlaylistShow shows a playlist with its full track listing.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	detail, err := r.svc.PlaylistDetail(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, cmd.Bool("pretty"))
	}

	r.writePlainHeader(detail.Playlist.Name)
	if detail.Playlist.Description != "" {
		r.writePlain("%s\n", detail.Playlist.Description)
	}
	r.writePlain("%d tracks\n\n", len(detail.Tracks))
	r.writeTracks(detail.Tracks)

	return nil
}

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	playlist, err := r.svc.CreatePlaylist(ctx, name)
	if err != nil {
		return err
	}

	r.writePlain("✓ Created playlist %s\n", playlist.Name)
	r.writePlain("ID: %s\n", playlist.ID)
	return nil
}

// PlaylistDelete removes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	if err := r.svc.DeletePlaylist(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Deleted playlist %s\n", id)
}

// PlaylistAdd appends a track to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Harmony service not initialized", shared.ErrServiceUnavailable)
	}

	playlistID := cmd.String("playlist-id")
	trackID := cmd.String("track-id")

	if err := r.svc.AddToPlaylist(ctx, playlistID, trackID); err != nil {
		return err
	}

	return r.writePlain("✓ Added track %s to playlist %s\n", trackID, playlistID)
}
