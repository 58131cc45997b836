// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/session"
	"github.com/desertthunder/harmony/internal/shared"
)

// MockService is a test double for [services.Service]
type MockService struct {
	LoginCredential *services.Credential
	LoginErr        error
	Tracks          []models.Track
	PlaylistList    []models.Playlist
}

func (m *MockService) Login(ctx context.Context, email, password string) (*services.Credential, error) {
	if m.LoginErr != nil {
		return nil, m.LoginErr
	}
	if m.LoginCredential != nil {
		return m.LoginCredential, nil
	}
	return &services.Credential{Token: "mock-token", User: &session.User{ID: "1", DisplayName: "Mock User", Role: "user"}}, nil
}

func (m *MockService) Register(ctx context.Context, input services.RegisterInput) (*services.Credential, error) {
	return m.Login(ctx, input.Email, input.Password)
}

func (m *MockService) GoogleAuthURL(redirect string) string {
	return "http://localhost/api/auth/google?redirect=" + redirect
}

func (m *MockService) ListMusic(ctx context.Context) ([]models.Track, error) {
	return m.Tracks, nil
}

func (m *MockService) SearchMusic(ctx context.Context, query string) ([]models.Track, error) {
	return m.Tracks, nil
}

func (m *MockService) MusicDetails(ctx context.Context, id string) (*models.Track, error) {
	for _, tr := range m.Tracks {
		if tr.ID == id {
			return &tr, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
}

func (m *MockService) ArtistMusic(ctx context.Context) ([]models.Track, error) {
	return m.Tracks, nil
}

func (m *MockService) UploadMusic(ctx context.Context, input services.UploadInput) (*models.Track, error) {
	return &models.Track{
		ID:     "mock-upload",
		Title:  input.Title,
		Artist: input.Artist,
		Album:  input.Album,
		Genre:  input.Genre,
	}, nil
}

func (m *MockService) DeleteMusic(ctx context.Context, id string) error { return nil }

func (m *MockService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	return m.PlaylistList, nil
}

func (m *MockService) PlaylistDetail(ctx context.Context, id string) (*models.PlaylistDetail, error) {
	for _, p := range m.PlaylistList {
		if p.ID == id {
			return &models.PlaylistDetail{Playlist: p, Tracks: m.Tracks}, nil
		}
	}
	return nil, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	return &models.Playlist{ID: "mock-playlist", Name: name}, nil
}

func (m *MockService) DeletePlaylist(ctx context.Context, id string) error { return nil }

func (m *MockService) AddToPlaylist(ctx context.Context, playlistID, musicID string) error {
	return nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
