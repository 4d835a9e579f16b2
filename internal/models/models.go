// package models defines the data model for the note-taking service
package models

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/scroll/internal/shared"
)

// MaxTitleLength matches the width of the notes.title column.
const MaxTitleLength = 255

// Model defines the base interface for all persistent models.
type Model interface {
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// User is a login identity. Email is unique and compared exactly.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds an unsaved User with both timestamps set to now.
func NewUser(email, passwordHash, salt string) *User {
	now := time.Now().UTC()
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) Validate() error {
	switch {
	case u.Email == "":
		return fmt.Errorf("%w: email is required", shared.ErrInvalidInput)
	case u.PasswordHash == "":
		return fmt.Errorf("%w: password hash is required", shared.ErrInvalidInput)
	case u.Salt == "":
		return fmt.Errorf("%w: salt is required", shared.ErrInvalidInput)
	}
	return nil
}

// Note is a titled piece of text owned by a single user.
type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote builds an unsaved Note for userID with both timestamps set to now.
func NewNote(userID int64, title, content string) *Note {
	now := time.Now().UTC()
	return &Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (n *Note) Validate() error {
	switch {
	case n.UserID <= 0:
		return fmt.Errorf("%w: note owner is required", shared.ErrInvalidInput)
	case strings.TrimSpace(n.Title) == "":
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	case utf8.RuneCountInString(n.Title) > MaxTitleLength:
		return fmt.Errorf("%w: title exceeds %d characters", shared.ErrInvalidInput, MaxTitleLength)
	case n.Content == "":
		return fmt.Errorf("%w: content is required", shared.ErrInvalidInput)
	}
	return nil
}

// UserRepository persists users.
type UserRepository interface {
	// Create inserts user and sets its ID. A duplicate email yields [shared.ErrConflict].
	Create(ctx context.Context, user *User) error
	// GetByEmail returns [shared.ErrNotFound] when no user matches.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Get returns [shared.ErrNotFound] when no user matches.
	Get(ctx context.Context, id int64) (*User, error)
	// List returns every user ordered by ID.
	List(ctx context.Context) ([]*User, error)
	// Delete removes a user and, through the foreign key, their notes.
	Delete(ctx context.Context, id int64) error
}

// NoteRepository persists notes scoped to their owner.
type NoteRepository interface {
	// Create inserts note and sets its ID.
	Create(ctx context.Context, note *Note) error
	// ListByUser returns the notes owned by userID ordered by ID.
	ListByUser(ctx context.Context, userID int64) ([]*Note, error)
}

// NoteExport is a user's notes captured for export.
type NoteExport struct {
	User       *User     `json:"user"`
	Notes      []*Note   `json:"notes"`
	ExportedAt time.Time `json:"exported_at"`
}
