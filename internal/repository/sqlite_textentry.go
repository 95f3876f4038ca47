package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const textEntryColumns = `id, user_criterion_id, value, active, created_at`

// SQLiteTextEntryRepo implements TextEntryRepo using a SQLite database.
// The active-swap invariant is the caller's job: run DeactivateAll and
// Insert inside one transaction via the UnitOfWork.
type SQLiteTextEntryRepo struct {
	db db.DBTX
}

// NewSQLiteTextEntryRepo creates a new SQLiteTextEntryRepo.
func NewSQLiteTextEntryRepo(conn db.DBTX) *SQLiteTextEntryRepo {
	return &SQLiteTextEntryRepo{db: conn}
}

func (r *SQLiteTextEntryRepo) DeactivateAll(ctx context.Context, userCriterionID string) error {
	query := `UPDATE text_entries SET active = 0 WHERE user_criterion_id = ? AND active = 1`
	if _, err := r.db.ExecContext(ctx, query, userCriterionID); err != nil {
		return fmt.Errorf("deactivating text entries for record %s: %w", userCriterionID, err)
	}
	return nil
}

func (r *SQLiteTextEntryRepo) Insert(ctx context.Context, e *domain.TextEntry) error {
	query := `INSERT INTO text_entries (user_criterion_id, value, active, created_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.UserCriterionID,
		e.Value,
		boolToInt(e.Active),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting text entry for record %s: %w", e.UserCriterionID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading text entry id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteTextEntryRepo) Active(ctx context.Context, userCriterionID string) (*domain.TextEntry, error) {
	query := `SELECT ` + textEntryColumns + ` FROM text_entries
		WHERE user_criterion_id = ? AND active = 1`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, userCriterionID))
}

// RecentInactive returns up to limit superseded entries, newest first.
// Entries sharing a creation timestamp order by descending id.
func (r *SQLiteTextEntryRepo) RecentInactive(ctx context.Context, userCriterionID string, limit int) ([]*domain.TextEntry, error) {
	query := `SELECT ` + textEntryColumns + ` FROM text_entries
		WHERE user_criterion_id = ? AND active = 0
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userCriterionID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing inactive text entries for record %s: %w", userCriterionID, err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteTextEntryRepo) ListByRecord(ctx context.Context, userCriterionID string) ([]*domain.TextEntry, error) {
	query := `SELECT ` + textEntryColumns + ` FROM text_entries WHERE user_criterion_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userCriterionID)
	if err != nil {
		return nil, fmt.Errorf("listing text entries for record %s: %w", userCriterionID, err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteTextEntryRepo) scanEntry(row *sql.Row) (*domain.TextEntry, error) {
	var e domain.TextEntry
	var active int
	var createdAt string
	if err := row.Scan(&e.ID, &e.UserCriterionID, &e.Value, &active, &createdAt); err != nil {
		return nil, wrapNotFound("text entry", err)
	}
	e.Active = intToBool(active)
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

func (r *SQLiteTextEntryRepo) scanEntries(rows *sql.Rows) ([]*domain.TextEntry, error) {
	var entries []*domain.TextEntry
	for rows.Next() {
		var e domain.TextEntry
		var active int
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserCriterionID, &e.Value, &active, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning text entry: %w", err)
		}
		e.Active = intToBool(active)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
