package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/scroll/internal/models"
)

// NoteRepository implements [models.NoteRepository] for SQLite.
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new [NoteRepository] with the given database connection
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note for its owner and sets its ID.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if err := validate(note); err != nil {
		return err
	}

	query := `
		INSERT INTO notes (user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, note.UserID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := insertID(result)
	if err != nil {
		return err
	}
	note.ID = id

	return nil
}

// ListByUser retrieves the notes owned by userID in creation order.
//
// The result is never nil so it encodes as an empty JSON array.
func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Note, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE user_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return notes, nil
}
