package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/scroll/internal/models"
)

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// insertID returns the rowid assigned by the last INSERT.
func insertID(result sql.Result) (int64, error) {
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, nil
}

// validate rejects a model before it reaches the database.
func validate(m models.Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
