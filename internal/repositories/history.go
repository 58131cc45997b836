package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// PlayRepository implements [models.Repository] for local listening history.
//
// Plays are append-mostly: the client records one row per playback and the
// history view reads them newest first. There are no soft deletes; clearing
// history removes rows outright.
type PlayRepository struct {
	db *sql.DB
}

// NewPlayRepository creates a new [PlayRepository] with the given database connection
func NewPlayRepository(db *sql.DB) *PlayRepository {
	return &PlayRepository{db: db}
}

// Create inserts a new play into the database with generated ID and sequence
func (r *PlayRepository) Create(play *models.Play) error {
	sequence, err := NextSequence(r.db, "plays")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	play.SetID(id)

	if err := play.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO plays (id, sequence, track_remote_id, title, artist, played_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, play.TrackRemoteID(), play.Title(), play.Artist(), play.PlayedAt())
	if err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}

	return nil
}

// Get retrieves a play by ID
func (r *PlayRepository) Get(id string) (*models.Play, error) {
	query := `
		SELECT id, sequence, track_remote_id, title, artist, played_at
		FROM plays
		WHERE id = ?
	`

	play, err := scanPlay(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("play not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query play: %w", err)
	}

	return play, nil
}

// Update rewrites a play's played_at timestamp
func (r *PlayRepository) Update(play *models.Play) error {
	result, err := r.db.Exec("UPDATE plays SET played_at = ? WHERE id = ?", play.PlayedAt(), play.ID())
	if err != nil {
		return fmt.Errorf("failed to update play: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("play not found: %s", play.ID())
	}

	return nil
}

// Delete removes a play by ID
func (r *PlayRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM plays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete play: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("play not found: %s", id)
	}

	return nil
}

// List retrieves plays matching the given criteria, newest first
func (r *PlayRepository) List(criteria map[string]any) ([]*models.Play, error) {
	query := `
		SELECT id, sequence, track_remote_id, title, artist, played_at
		FROM plays
	`

	args := []any{}

	if trackID, ok := criteria["track_remote_id"].(string); ok && trackID != "" {
		query += " WHERE track_remote_id = ?"
		args = append(args, trackID)
	}

	query += " ORDER BY played_at DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []*models.Play
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, play)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return plays, nil
}

// Clear removes all history rows.
func (r *PlayRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM plays"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func scanPlay(s rowScanner) (*models.Play, error) {
	var (
		id            string
		sequence      int
		trackRemoteID string
		title         string
		artist        string
		playedAt      time.Time
	)

	if err := s.Scan(&id, &sequence, &trackRemoteID, &title, &artist, &playedAt); err != nil {
		return nil, err
	}

	play := models.NewPlay(sequence, trackRemoteID, title, artist)
	play.SetID(id)
	play.SetPlayedAt(playedAt)

	return play, nil
}
