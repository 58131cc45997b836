// Harmony backend implementation of [Service]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/session"
	"github.com/desertthunder/harmony/internal/shared"
	"golang.org/x/time/rate"
)

// requestsPerSecond caps outbound API calls so bulk operations (library sync)
// stay friendly to the backend.
const requestsPerSecond = 10

// HarmonyService implements [Service] against the Harmony auth and music APIs.
//
// Credential attachment is decided per request by the session-aware transport;
// the service itself never reads the token.
type HarmonyService struct {
	authURL    string
	musicURL   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Service = (*HarmonyService)(nil)

// NewHarmonyService creates a service over the configured API origins.
//
// When client is nil a cookie-jar-equipped client is created; the jar is what
// makes ambient-cookie deployments work, and [CookieSourceFor] exposes it to
// the credential store for hydration.
func NewHarmonyService(api shared.APIConfig, store session.Store, client *http.Client) (*HarmonyService, error) {
	if api.AuthURL == "" || api.MusicURL == "" {
		return nil, fmt.Errorf("%w: auth and music URLs are required", shared.ErrInvalidConfig)
	}

	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client = &http.Client{Jar: jar, Timeout: 30 * time.Second}
	}

	client.Transport = newAuthTransport(store, client.Transport)

	return &HarmonyService{
		authURL:    strings.TrimRight(api.AuthURL, "/"),
		musicURL:   strings.TrimRight(api.MusicURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// CookieSourceFor returns a [session.CookieSource] reading the token cookie
// the backend may have set for the auth origin. Returns nil when the client
// has no jar.
func (h *HarmonyService) CookieSourceFor() *session.JarCookieSource {
	if h.httpClient.Jar == nil {
		return nil
	}
	origin, err := url.Parse(h.authURL)
	if err != nil {
		return nil
	}
	return session.NewJarCookieSource(h.httpClient.Jar, origin)
}

func (h *HarmonyService) Name() string {
	return "Harmony"
}

// apiUser is the wire shape of a user profile. The backend has shipped both
// a flat name and a structured fullname.
type apiUser struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	FullName struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"fullname"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *apiUser) toSessionUser() *session.User {
	if u == nil || u.ID == "" {
		return nil
	}

	name := u.Name
	if name == "" {
		name = strings.TrimSpace(u.FullName.FirstName + " " + u.FullName.LastName)
	}

	return &session.User{ID: u.ID, DisplayName: name, Role: u.Role}
}

// apiMusic is the wire shape of a catalog track.
type apiMusic struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Genre    string `json:"genre"`
	Duration int    `json:"duration"`
	AudioURL string `json:"audioUrl"`
	CoverURL string `json:"coverUrl"`
}

func (m apiMusic) toTrack() models.Track {
	return models.Track{
		ID:       m.ID,
		Title:    m.Title,
		Artist:   m.Artist,
		Album:    m.Album,
		Genre:    m.Genre,
		Duration: m.Duration,
		AudioURL: m.AudioURL,
		CoverURL: m.CoverURL,
	}
}

// apiPlaylist is the wire shape of a playlist.
type apiPlaylist struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Public      bool       `json:"isPublic"`
	Musics      []apiMusic `json:"musics"`
}

func (p apiPlaylist) toPlaylist() models.Playlist {
	return models.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TrackCount:  len(p.Musics),
		Public:      p.Public,
	}
}

// Login exchanges an email/password pair for a credential.
func (h *HarmonyService) Login(ctx context.Context, email, password string) (*Credential, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string   `json:"token"`
		User  *apiUser `json:"user"`
	}
	if err := h.doJSON(ctx, http.MethodPost, h.authURL+"/api/auth/login", body, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("%w: no token in login response", shared.ErrAuthFailed)
	}

	return &Credential{Token: resp.Token, User: resp.User.toSessionUser()}, nil
}

// Register creates an account and returns its first credential.
func (h *HarmonyService) Register(ctx context.Context, input RegisterInput) (*Credential, error) {
	if input.Role == "" {
		input.Role = "user"
	}

	body := map[string]any{
		"email": input.Email,
		"fullname": map[string]string{
			"firstName": input.FirstName,
			"lastName":  input.LastName,
		},
		"password": input.Password,
		"role":     input.Role,
	}

	var resp struct {
		Token string   `json:"token"`
		User  *apiUser `json:"user"`
	}
	if err := h.doJSON(ctx, http.MethodPost, h.authURL+"/api/auth/register", body, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("%w: no token in registration response", shared.ErrAuthFailed)
	}

	return &Credential{Token: resp.Token, User: resp.User.toSessionUser()}, nil
}

// GoogleAuthURL returns the backend URL that starts the Google OAuth round trip.
func (h *HarmonyService) GoogleAuthURL(redirect string) string {
	return fmt.Sprintf("%s/api/auth/google?redirect=%s", h.authURL, url.QueryEscape(redirect))
}

// ListMusic retrieves the public catalog.
func (h *HarmonyService) ListMusic(ctx context.Context) ([]models.Track, error) {
	var resp struct {
		Musics []apiMusic `json:"musics"`
	}
	if err := h.doJSON(ctx, http.MethodGet, h.musicURL+"/api/music", nil, &resp); err != nil {
		return nil, err
	}
	return toTracks(resp.Musics), nil
}

// SearchMusic searches songs and artists.
func (h *HarmonyService) SearchMusic(ctx context.Context, query string) ([]models.Track, error) {
	endpoint := h.musicURL + "/api/music/search?q=" + url.QueryEscape(query)

	var resp struct {
		Musics []apiMusic `json:"musics"`
	}
	if err := h.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return toTracks(resp.Musics), nil
}

// MusicDetails retrieves a single track with its stream URL.
func (h *HarmonyService) MusicDetails(ctx context.Context, id string) (*models.Track, error) {
	var resp struct {
		Music *apiMusic `json:"music"`
	}
	if err := h.doJSON(ctx, http.MethodGet, h.musicURL+"/api/music/get-details/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Music == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}
	track := resp.Music.toTrack()
	return &track, nil
}

// ArtistMusic retrieves the signed-in artist's own uploads.
func (h *HarmonyService) ArtistMusic(ctx context.Context) ([]models.Track, error) {
	var resp struct {
		Musics []apiMusic `json:"musics"`
	}
	if err := h.doJSON(ctx, http.MethodGet, h.musicURL+"/api/music/artist-musics", nil, &resp); err != nil {
		return nil, err
	}
	return toTracks(resp.Musics), nil
}

// DeleteMusic removes one of the artist's own tracks.
func (h *HarmonyService) DeleteMusic(ctx context.Context, id string) error {
	return h.doJSON(ctx, http.MethodDelete, h.musicURL+"/api/music/"+url.PathEscape(id), nil, nil)
}

// UploadMusic uploads a new track as multipart form data.
func (h *HarmonyService) UploadMusic(ctx context.Context, input UploadInput) (*models.Track, error) {
	if input.Title == "" || input.AudioPath == "" {
		return nil, fmt.Errorf("%w: title and audio file are required", shared.ErrMissingArgument)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":  input.Title,
		"artist": input.Artist,
		"album":  input.Album,
		"genre":  input.Genre,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if err := attachFile(writer, "audio", input.AudioPath); err != nil {
		return nil, err
	}
	if input.CoverPath != "" {
		if err := attachFile(writer, "cover", input.CoverPath); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.musicURL+"/api/music/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp struct {
		Music *apiMusic `json:"music"`
	}
	if err := h.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.Music == nil {
		return nil, fmt.Errorf("%w: empty upload response", shared.ErrAPIRequest)
	}
	track := resp.Music.toTrack()
	return &track, nil
}

// Playlists retrieves the signed-in user's playlists.
func (h *HarmonyService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var resp struct {
		Playlists []apiPlaylist `json:"playlists"`
	}
	if err := h.doJSON(ctx, http.MethodGet, h.musicURL+"/api/music/playlist", nil, &resp); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(resp.Playlists))
	for _, p := range resp.Playlists {
		playlists = append(playlists, p.toPlaylist())
	}
	return playlists, nil
}

// PlaylistDetail retrieves a playlist with its full track listing.
func (h *HarmonyService) PlaylistDetail(ctx context.Context, id string) (*models.PlaylistDetail, error) {
	var resp struct {
		Playlist *apiPlaylist `json:"playlist"`
	}
	if err := h.doJSON(ctx, http.MethodGet, h.musicURL+"/api/music/playlist/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return &models.PlaylistDetail{
		Playlist: resp.Playlist.toPlaylist(),
		Tracks:   toTracks(resp.Playlist.Musics),
	}, nil
}

// CreatePlaylist creates an empty playlist.
func (h *HarmonyService) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	body := map[string]string{"name": name}

	var resp struct {
		Playlist *apiPlaylist `json:"playlist"`
	}
	if err := h.doJSON(ctx, http.MethodPost, h.musicURL+"/api/music/playlist", body, &resp); err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return nil, fmt.Errorf("%w: empty create response", shared.ErrAPIRequest)
	}

	playlist := resp.Playlist.toPlaylist()
	return &playlist, nil
}

// DeletePlaylist removes a playlist.
func (h *HarmonyService) DeletePlaylist(ctx context.Context, id string) error {
	return h.doJSON(ctx, http.MethodDelete, h.musicURL+"/api/music/playlist/"+url.PathEscape(id), nil, nil)
}

// AddToPlaylist appends a track to a playlist.
func (h *HarmonyService) AddToPlaylist(ctx context.Context, playlistID, musicID string) error {
	body := map[string]string{"playlistId": playlistID, "musicId": musicID}
	return h.doJSON(ctx, http.MethodPost, h.musicURL+"/api/music/playlist/add-music", body, nil)
}

// doJSON performs a rate-limited request with an optional JSON body, decoding
// the response into result when non-nil.
func (h *HarmonyService) doJSON(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return h.do(req, result)
}

// do executes a prepared request through the session-aware client.
func (h *HarmonyService) do(req *http.Request, result any) error {
	if err := h.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("request cancelled: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", shared.ErrLoginRequired, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func attachFile(writer *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s file: %w", field, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create %s form part: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s file: %w", field, err)
	}

	return nil
}

func toTracks(musics []apiMusic) []models.Track {
	tracks := make([]models.Track, 0, len(musics))
	for _, m := range musics {
		tracks = append(tracks, m.toTrack())
	}
	return tracks
}
