package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// TrackRepository implements models.Repository[*models.PersistedTrack] for catalog caching.
//
// Rows mirror whatever the backend last returned; remote_id carries the
// backend's identifier and is unique, so a re-sync updates rather than
// duplicates.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.PersistedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	track.SetID(id)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	dto := track.Track()

	query := `
		INSERT INTO tracks (id, sequence, remote_id, title, artist, album, genre, duration, audio_url, cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.RemoteID(),
		dto.Title,
		dto.Artist,
		dto.Album,
		dto.Genre,
		dto.Duration,
		dto.AudioURL,
		dto.CoverURL,
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	query := trackSelect + " WHERE id = ? AND deleted_at IS NULL"

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a track by the backend's identifier
func (r *TrackRepository) GetByRemoteID(remoteID string) (*models.PersistedTrack, error) {
	query := trackSelect + " WHERE remote_id = ? AND deleted_at IS NULL"

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing track in the database
func (r *TrackRepository) Update(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)
	dto := track.Track()

	query := `
		UPDATE tracks
		SET title = ?, artist = ?, album = ?, genre = ?, duration = ?, audio_url = ?, cover_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		dto.Title,
		dto.Artist,
		dto.Album,
		dto.Genre,
		dto.Duration,
		dto.AudioURL,
		dto.CoverURL,
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found or already deleted: %s", track.ID())
	}

	return nil
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE tracks
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all tracks matching the given criteria, excluding soft-deleted tracks
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := trackSelect + " WHERE deleted_at IS NULL"

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

const trackSelect = `
	SELECT id, sequence, remote_id, title, artist, album, genre, duration, audio_url, cover_url, created_at, updated_at, deleted_at
	FROM tracks`

// rowScanner covers both [sql.Row] and [sql.Rows]
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(s rowScanner) (*models.PersistedTrack, error) {
	var (
		id        string
		sequence  int
		remoteID  string
		title     string
		artist    string
		album     sql.NullString
		genre     sql.NullString
		duration  sql.NullInt64
		audioURL  sql.NullString
		coverURL  sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &remoteID, &title, &artist, &album, &genre, &duration, &audioURL, &coverURL, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	dto := models.Track{
		ID:       remoteID,
		Title:    title,
		Artist:   artist,
		Album:    album.String,
		Genre:    genre.String,
		Duration: int(duration.Int64),
		AudioURL: audioURL.String,
		CoverURL: coverURL.String,
	}

	track := models.NewPersistedTrack(sequence, remoteID, dto)
	track.SetID(id)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedTrack]
func (r *TrackRepository) scanOne(row *sql.Row) (*models.PersistedTrack, error) {
	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return track, nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedTrack]
func (r *TrackRepository) scanRow(rows *sql.Rows) (*models.PersistedTrack, error) {
	track, err := scanTrack(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return track, nil
}
