// package formatter provides functions to export notes to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/scroll/internal/models"
	"github.com/desertthunder/scroll/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

const timeLayout = time.RFC3339

// ParseFormat accepts csv, md (or markdown) and txt (or text), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
}

// Render converts export to the given format.
func Render(export *models.NoteExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
}

// ExportToCSV converts a NoteExport to CSV format with columns: ID, Title, Content, Created, Updated
func ExportToCSV(export *models.NoteExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Content", "Created", "Updated"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, note := range export.Notes {
		record := []string{
			strconv.FormatInt(note.ID, 10),
			note.Title,
			note.Content,
			note.CreatedAt.UTC().Format(timeLayout),
			note.UpdatedAt.UTC().Format(timeLayout),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a NoteExport to Markdown with one section per note
func ExportToMarkdown(export *models.NoteExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Notes for %s\n\n", ownerEmail(export))
	fmt.Fprintf(&buf, "**Notes**: %d\n", len(export.Notes))
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.UTC().Format(timeLayout))
	}

	for _, note := range export.Notes {
		fmt.Fprintf(&buf, "\n## %s\n\n", note.Title)
		fmt.Fprintf(&buf, "_%s_\n\n", note.CreatedAt.UTC().Format(timeLayout))
		buf.WriteString(strings.TrimRight(note.Content, "\n"))
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a NoteExport to plain text format
func ExportToText(export *models.NoteExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "User: %s\n", ownerEmail(export))
	fmt.Fprintf(&buf, "Notes: %d\n\n", len(export.Notes))

	for i, note := range export.Notes {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, note.Title)
		for line := range strings.SplitSeq(strings.TrimRight(note.Content, "\n"), "\n") {
			fmt.Fprintf(&buf, "   %s\n", line)
		}
	}

	return buf.Bytes(), nil
}

// WriteExport renders export and writes it to path.
//
// Defaults to {email local part}_notes.{format} in the working directory. Parent directories are created.
func WriteExport(export *models.NoteExport, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(export, format)
	}

	data, err := Render(export, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// DefaultFilename derives an export filename from the owner's email.
func DefaultFilename(export *models.NoteExport, format Format) string {
	base, _, _ := strings.Cut(ownerEmail(export), "@")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	if base == "" {
		base = "export"
	}
	return fmt.Sprintf("%s_notes.%s", base, format)
}

func ownerEmail(export *models.NoteExport) string {
	if export.User == nil {
		return ""
	}
	return export.User.Email
}
