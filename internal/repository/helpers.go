package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gradetrack/gradetrack/internal/domain"
)

// parseTime parses an RFC3339 string stored by the repositories. Returns the
// zero time on failure so scans of legacy rows never error.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableString converts a *string to a value suitable for SQLite storage.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a sql.NullString back to a *string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. modernc.org/sqlite surfaces these as plain errors carrying the
// constraint text, so string matching is the available signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapNotFound maps sql.ErrNoRows to the engine's ErrNotFound, annotated
// with the entity kind that was looked up.
func wrapNotFound(entity string, err error) error {
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return err
}
