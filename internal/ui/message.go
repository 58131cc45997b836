package ui

import (
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/tasks"
)

// authSignalMsg arrives when the session bus publishes: the session changed
// somewhere (this process or another) and auth-derived state must be re-read.
type authSignalMsg struct{}

type catalogFetchedMsg struct {
	tracks []models.Track
	err    error
}

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type syncProgressMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}

// syncOutcome carries the engine's final result from the sync goroutine to the
// update loop, which is the only writer of model state.
type syncOutcome struct {
	result *tasks.SyncResult
	err    error
}
