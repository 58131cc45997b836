// package services defines interface Service for the Harmony backend APIs
package services

import (
	"context"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/session"
)

// Credential is the result of a successful login or registration.
//
// The service never touches the credential store itself; callers write the
// store and publish on the session bus.
type Credential struct {
	Token string
	User  *session.User
}

// RegisterInput carries the fields of the registration form.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string // "user" or "artist"
}

// UploadInput carries the fields of the upload form plus file paths.
type UploadInput struct {
	Title     string
	Artist    string
	Album     string
	Genre     string
	AudioPath string
	CoverPath string
}

// Service defines the client surface of the Harmony backend: authentication,
// catalog browsing, playlists, and artist uploads.
type Service interface {
	// Login exchanges an email/password pair for a credential.
	Login(ctx context.Context, email, password string) (*Credential, error)

	// Register creates an account and returns its first credential.
	Register(ctx context.Context, input RegisterInput) (*Credential, error)

	// GoogleAuthURL returns the backend URL that starts the Google OAuth
	// round trip, redirecting back to the given callback when done.
	GoogleAuthURL(redirect string) string

	// ListMusic retrieves the public catalog.
	ListMusic(ctx context.Context) ([]models.Track, error)

	// SearchMusic searches songs and artists.
	SearchMusic(ctx context.Context, query string) ([]models.Track, error)

	// MusicDetails retrieves a single track with its stream URL.
	MusicDetails(ctx context.Context, id string) (*models.Track, error)

	// ArtistMusic retrieves the signed-in artist's own uploads.
	ArtistMusic(ctx context.Context) ([]models.Track, error)

	// UploadMusic uploads a new track with its audio and cover files.
	UploadMusic(ctx context.Context, input UploadInput) (*models.Track, error)

	// DeleteMusic removes one of the artist's own tracks.
	DeleteMusic(ctx context.Context, id string) error

	// Playlists retrieves the signed-in user's playlists.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// PlaylistDetail retrieves a playlist with its full track listing.
	PlaylistDetail(ctx context.Context, id string) (*models.PlaylistDetail, error)

	// CreatePlaylist creates an empty playlist.
	CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error)

	// DeletePlaylist removes a playlist.
	DeletePlaylist(ctx context.Context, id string) error

	// AddToPlaylist appends a track to a playlist.
	AddToPlaylist(ctx context.Context, playlistID, musicID string) error

	// Name returns the name of the service
	Name() string
}
