package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/scroll/internal/models"
	"github.com/desertthunder/scroll/internal/shared"
	tu "github.com/desertthunder/scroll/internal/testing"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewUserRepository(tu.MustDatabase(t))
		user := models.NewUser("test@example.com", "hash", "salt")

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if user.ID == 0 {
			t.Error("user ID should be set after creation")
		}
	})

	t.Run("GetByEmail", func(t *testing.T) {
		repo := NewUserRepository(tu.MustDatabase(t))
		user := models.NewUser("test@example.com", "hash", "salt")

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.GetByEmail(ctx, "test@example.com")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.ID != user.ID {
			t.Errorf("expected ID %d, got %d", user.ID, retrieved.ID)
		}
		if retrieved.PasswordHash != "hash" || retrieved.Salt != "salt" {
			t.Errorf("credentials not round-tripped: %+v", retrieved)
		}
		if retrieved.CreatedAt.IsZero() {
			t.Error("expected created_at to be scanned")
		}
	})

	t.Run("GetByEmail is case sensitive", func(t *testing.T) {
		repo := NewUserRepository(tu.MustDatabase(t))
		if err := repo.Create(ctx, models.NewUser("Test@Example.com", "hash", "salt")); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if _, err := repo.GetByEmail(ctx, "test@example.com"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for different case, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewUserRepository(tu.MustDatabase(t))
		user := models.NewUser("test@example.com", "hash", "salt")
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.Get(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if retrieved.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, retrieved.Email)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewUserRepository(tu.MustDatabase(t))

		empty, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", empty)
		}

		for i := 1; i <= 3; i++ {
			if err := repo.Create(ctx, models.NewUser(fmt.Sprintf("user%d@example.com", i), "hash", "salt")); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("expected 3 users, got %d", len(users))
		}
		if users[0].Email != "user1@example.com" || users[2].Email != "user3@example.com" {
			t.Errorf("users not ordered by id: %s, %s", users[0].Email, users[2].Email)
		}
	})

	t.Run("Delete cascades to notes", func(t *testing.T) {
		db := tu.MustDatabase(t)
		users := NewUserRepository(db)
		notes := NewNoteRepository(db)

		user := models.NewUser("test@example.com", "hash", "salt")
		if err := users.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		if err := notes.Create(ctx, models.NewNote(user.ID, "t", "c")); err != nil {
			t.Fatalf("failed to create note: %v", err)
		}

		if err := users.Delete(ctx, user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
			t.Fatalf("failed to count notes: %v", err)
		}
		if count != 0 {
			t.Errorf("expected notes to be removed with their owner, got %d", count)
		}
	})
}

func TestUserRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewUserRepository(tu.MustDatabase(t))

			err := repo.Create(ctx, models.NewUser("", "hash", "salt"))
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected validation error for empty email, got %v", err)
			}
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			repo := NewUserRepository(tu.MustDatabase(t))

			if err := repo.Create(ctx, models.NewUser("test@example.com", "hash1", "salt1")); err != nil {
				t.Fatalf("failed to create first user: %v", err)
			}

			err := repo.Create(ctx, models.NewUser("test@example.com", "hash2", "salt2"))
			if !errors.Is(err, shared.ErrConflict) {
				t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewUserRepository(tu.MustDatabase(t))

		if _, err := repo.Get(ctx, 42); !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewUserRepository(tu.MustDatabase(t))

		if err := repo.Delete(ctx, 42); !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Closed database", func(t *testing.T) {
		db := tu.MustDatabase(t)
		repo := NewUserRepository(db)
		db.Close()

		if err := repo.Create(ctx, models.NewUser("a@x.com", "hash", "salt")); err == nil || errors.Is(err, shared.ErrConflict) {
			t.Errorf("expected plain storage error, got %v", err)
		}
		if _, err := repo.List(ctx); err == nil {
			t.Error("expected error listing from closed database")
		}
	})
}

func TestNoteRepository(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*UserRepository, *NoteRepository) {
		t.Helper()
		db := tu.MustDatabase(t)
		return NewUserRepository(db), NewNoteRepository(db)
	}

	t.Run("Create", func(t *testing.T) {
		users, notes := setup(t)
		user := models.NewUser("a@x.com", "hash", "salt")
		if err := users.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		note := models.NewNote(user.ID, "t", "c")
		if err := notes.Create(ctx, note); err != nil {
			t.Fatalf("failed to create note: %v", err)
		}
		if note.ID == 0 {
			t.Error("note ID should be set after creation")
		}
	})

	t.Run("Create rejects unknown owner", func(t *testing.T) {
		_, notes := setup(t)

		if err := notes.Create(ctx, models.NewNote(999, "t", "c")); err == nil {
			t.Error("expected foreign key failure for unknown user")
		}
	})

	t.Run("Create validates", func(t *testing.T) {
		_, notes := setup(t)

		if err := notes.Create(ctx, models.NewNote(1, "", "c")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ListByUser is scoped to owner", func(t *testing.T) {
		users, notes := setup(t)

		alice := models.NewUser("alice@x.com", "hash", "salt")
		bob := models.NewUser("bob@x.com", "hash", "salt")
		for _, u := range []*models.User{alice, bob} {
			if err := users.Create(ctx, u); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		for i := range 6 {
			owner := alice
			if i%2 == 1 {
				owner = bob
			}
			if err := notes.Create(ctx, models.NewNote(owner.ID, fmt.Sprintf("note %d", i), "body")); err != nil {
				t.Fatalf("failed to create note: %v", err)
			}
		}

		for _, u := range []*models.User{alice, bob} {
			list, err := notes.ListByUser(ctx, u.ID)
			if err != nil {
				t.Fatalf("failed to list notes: %v", err)
			}
			if len(list) != 3 {
				t.Errorf("expected 3 notes for %s, got %d", u.Email, len(list))
			}
			for i, n := range list {
				if n.UserID != u.ID {
					t.Errorf("note %d belongs to user %d, listed for %d", n.ID, n.UserID, u.ID)
				}
				if i > 0 && list[i-1].ID >= n.ID {
					t.Errorf("notes not ordered by id")
				}
			}
		}
	})

	t.Run("ListByUser empty", func(t *testing.T) {
		_, notes := setup(t)

		list, err := notes.ListByUser(ctx, 1)
		if err != nil {
			t.Fatalf("failed to list notes: %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", list)
		}
	})
}
