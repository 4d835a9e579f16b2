package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/scroll/internal/formatter"
	"github.com/desertthunder/scroll/internal/models"
	"github.com/desertthunder/scroll/internal/repositories"
	"github.com/desertthunder/scroll/internal/ui"
	"github.com/urfave/cli/v3"
)

const previewLength = 40

// UsersList prints every registered user.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := repositories.NewUserRepository(db).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	if len(users) == 0 {
		return r.writePlain("%s\n", ui.Styles.Warning("No users registered."))
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Email, u.CreatedAt.Local().Format(time.DateTime)})
	}

	r.writePlain("%s\n", ui.Styles.Title(fmt.Sprintf("Users (%d)", len(users))))
	return r.writePlain("%s\n", ui.Styles.Table([]string{"ID", "Email", "Created"}, rows))
}

// UsersDelete removes the user registered under --email. Their notes go with them.
func (r *Runner) UsersDelete(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	email := cmd.String("email")
	users := repositories.NewUserRepository(db)

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", email, err)
	}

	if err := users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", email, err)
	}

	r.logger.Info("deleted user", "email", email, "id", user.ID)
	return r.writePlain("%s\n", ui.Styles.Success("✓ Deleted "+email))
}

// NotesList prints the notes owned by --email.
func (r *Runner) NotesList(ctx context.Context, cmd *cli.Command) error {
	export, err := r.collectNotes(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(export.Notes, true)
	}

	if len(export.Notes) == 0 {
		return r.writePlain("%s\n", ui.Styles.Warning("No notes for "+export.User.Email+"."))
	}

	rows := make([][]string, 0, len(export.Notes))
	for _, n := range export.Notes {
		rows = append(rows, []string{strconv.FormatInt(n.ID, 10), n.Title, preview(n.Content), n.CreatedAt.Local().Format(time.DateTime)})
	}

	r.writePlain("%s\n", ui.Styles.Title(fmt.Sprintf("Notes for %s (%d)", export.User.Email, len(export.Notes))))
	return r.writePlain("%s\n", ui.Styles.Table([]string{"ID", "Title", "Content", "Created"}, rows))
}

// NotesExport writes the notes owned by --email to a file.
func (r *Runner) NotesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	export, err := r.collectNotes(ctx, cmd)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to export notes: %w", err)
	}

	r.logger.Info("exported notes", "email", export.User.Email, "count", len(export.Notes), "path", path)
	return r.writePlain("%s\n", ui.Styles.Success(fmt.Sprintf("✓ Exported %d notes to %s", len(export.Notes), path)))
}

func (r *Runner) collectNotes(ctx context.Context, cmd *cli.Command) (*models.NoteExport, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	db, err := r.openDatabase(ctx, config)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	email := cmd.String("email")
	user, err := repositories.NewUserRepository(db).GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", email, err)
	}

	notes, err := repositories.NewNoteRepository(db).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return &models.NoteExport{User: user, Notes: notes, ExportedAt: time.Now()}, nil
}

// preview flattens content to one line of at most previewLength runes.
func preview(content string) string {
	line := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(line) <= previewLength {
		return line
	}
	return string([]rune(line)[:previewLength-1]) + "…"
}
