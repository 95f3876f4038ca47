package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const progressColumns = `id, user_id, criterion_id, container_id, count_value, is_fulfilled, reviewed, created_at, updated_at`

// SQLiteProgressRepo implements ProgressRepo using a SQLite database.
type SQLiteProgressRepo struct {
	db db.DBTX
}

// NewSQLiteProgressRepo creates a new SQLiteProgressRepo.
func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

// GetOrCreate inserts a zero-valued record for the key unless one exists,
// then returns whichever row won. The unique index on the key makes the
// insert a no-op when another caller got there first, so racing callers all
// end up reading the same record.
func (r *SQLiteProgressRepo) GetOrCreate(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	insert := `INSERT OR IGNORE INTO user_criteria
		(id, user_id, criterion_id, container_id, count_value, is_fulfilled, reviewed, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, 0, 0, ?, ?)`
	_, err := r.db.ExecContext(ctx, insert,
		uuid.New().String(),
		userID,
		criterionID,
		nullableString(containerID),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting progress record (%s, %s): %w", userID, criterionID, err)
	}
	return r.Get(ctx, userID, criterionID, containerID)
}

func (r *SQLiteProgressRepo) Get(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error) {
	query := `SELECT ` + progressColumns + ` FROM user_criteria
		WHERE user_id = ? AND criterion_id = ? AND COALESCE(container_id, '') = COALESCE(?, '')`
	return r.scanProgress(r.db.QueryRowContext(ctx, query, userID, criterionID, nullableString(containerID)))
}

func (r *SQLiteProgressRepo) GetByID(ctx context.Context, id string) (*domain.UserCriterion, error) {
	query := `SELECT ` + progressColumns + ` FROM user_criteria WHERE id = ?`
	return r.scanProgress(r.db.QueryRowContext(ctx, query, id))
}

// AddCount adjusts the counter by delta in a single statement so concurrent
// adjustments never lose updates. The counter floors at zero.
func (r *SQLiteProgressRepo) AddCount(ctx context.Context, id string, delta int) error {
	query := `UPDATE user_criteria
		SET count_value = MAX(0, count_value + ?), updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, delta, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("adjusting count for progress record %s: %w", id, err)
	}
	return requireRow(res, "progress record", id)
}

func (r *SQLiteProgressRepo) SetFulfilled(ctx context.Context, id string, value bool) error {
	query := `UPDATE user_criteria SET is_fulfilled = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, boolToInt(value), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("setting fulfilled flag for progress record %s: %w", id, err)
	}
	return requireRow(res, "progress record", id)
}

func (r *SQLiteProgressRepo) SetReviewed(ctx context.Context, id string, value bool) error {
	query := `UPDATE user_criteria SET reviewed = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, boolToInt(value), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("setting reviewed flag for progress record %s: %w", id, err)
	}
	return requireRow(res, "progress record", id)
}

func (r *SQLiteProgressRepo) ListByContainer(ctx context.Context, containerID string) ([]*domain.UserCriterion, error) {
	query := `SELECT ` + progressColumns + ` FROM user_criteria WHERE container_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, containerID)
	if err != nil {
		return nil, fmt.Errorf("listing progress for container %s: %w", containerID, err)
	}
	defer rows.Close()
	return r.scanProgressRows(rows)
}

func (r *SQLiteProgressRepo) ListByUser(ctx context.Context, userID string) ([]*domain.UserCriterion, error) {
	query := `SELECT ` + progressColumns + ` FROM user_criteria WHERE user_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing progress for user %s: %w", userID, err)
	}
	defer rows.Close()
	return r.scanProgressRows(rows)
}

func (r *SQLiteProgressRepo) ListAll(ctx context.Context) ([]*domain.UserCriterion, error) {
	query := `SELECT ` + progressColumns + ` FROM user_criteria ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing progress records: %w", err)
	}
	defer rows.Close()
	return r.scanProgressRows(rows)
}

// requireRow maps a zero-row UPDATE to ErrNotFound.
func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteProgressRepo) scanProgress(row *sql.Row) (*domain.UserCriterion, error) {
	var uc domain.UserCriterion
	var containerID sql.NullString
	var fulfilled, reviewed int
	var createdAt, updatedAt string
	err := row.Scan(&uc.ID, &uc.UserID, &uc.CriterionID, &containerID,
		&uc.CountValue, &fulfilled, &reviewed, &createdAt, &updatedAt)
	if err != nil {
		return nil, wrapNotFound("progress record", err)
	}
	uc.ContainerID = stringPtr(containerID)
	uc.IsFulfilled = intToBool(fulfilled)
	uc.Reviewed = intToBool(reviewed)
	uc.CreatedAt = parseTime(createdAt)
	uc.UpdatedAt = parseTime(updatedAt)
	return &uc, nil
}

func (r *SQLiteProgressRepo) scanProgressRows(rows *sql.Rows) ([]*domain.UserCriterion, error) {
	var records []*domain.UserCriterion
	for rows.Next() {
		var uc domain.UserCriterion
		var containerID sql.NullString
		var fulfilled, reviewed int
		var createdAt, updatedAt string
		if err := rows.Scan(&uc.ID, &uc.UserID, &uc.CriterionID, &containerID,
			&uc.CountValue, &fulfilled, &reviewed, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning progress record: %w", err)
		}
		uc.ContainerID = stringPtr(containerID)
		uc.IsFulfilled = intToBool(fulfilled)
		uc.Reviewed = intToBool(reviewed)
		uc.CreatedAt = parseTime(createdAt)
		uc.UpdatedAt = parseTime(updatedAt)
		records = append(records, &uc)
	}
	return records, rows.Err()
}
