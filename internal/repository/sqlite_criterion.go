package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const criterionColumns = `id, name, type, created_at, updated_at`

// SQLiteCriterionRepo implements CriterionRepo using a SQLite database.
type SQLiteCriterionRepo struct {
	db db.DBTX
}

// NewSQLiteCriterionRepo creates a new SQLiteCriterionRepo.
func NewSQLiteCriterionRepo(conn db.DBTX) *SQLiteCriterionRepo {
	return &SQLiteCriterionRepo{db: conn}
}

func (r *SQLiteCriterionRepo) Create(ctx context.Context, c *domain.Criterion) error {
	query := `INSERT INTO criteria (id, name, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		string(c.Type),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("criterion name %q: %w", c.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("inserting criterion: %w", err)
	}
	return nil
}

func (r *SQLiteCriterionRepo) GetByID(ctx context.Context, id string) (*domain.Criterion, error) {
	query := `SELECT ` + criterionColumns + ` FROM criteria WHERE id = ?`
	return r.scanCriterion(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteCriterionRepo) GetByName(ctx context.Context, name string) (*domain.Criterion, error) {
	query := `SELECT ` + criterionColumns + ` FROM criteria WHERE name = ?`
	return r.scanCriterion(r.db.QueryRowContext(ctx, query, name))
}

func (r *SQLiteCriterionRepo) List(ctx context.Context) ([]*domain.Criterion, error) {
	query := `SELECT ` + criterionColumns + ` FROM criteria ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing criteria: %w", err)
	}
	defer rows.Close()

	var criteria []*domain.Criterion
	for rows.Next() {
		var c domain.Criterion
		var typeStr, createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.Name, &typeStr, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning criterion: %w", err)
		}
		c.Type = domain.CriterionType(typeStr)
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		criteria = append(criteria, &c)
	}
	return criteria, rows.Err()
}

func (r *SQLiteCriterionRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM criteria WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting criterion %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteCriterionRepo) InUse(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM container_criteria WHERE criterion_id = ?)
		OR EXISTS(SELECT 1 FROM user_criteria WHERE criterion_id = ?)`
	var used int
	if err := r.db.QueryRowContext(ctx, query, id, id).Scan(&used); err != nil {
		return false, fmt.Errorf("checking criterion %s dependents: %w", id, err)
	}
	return intToBool(used), nil
}

func (r *SQLiteCriterionRepo) scanCriterion(row *sql.Row) (*domain.Criterion, error) {
	var c domain.Criterion
	var typeStr, createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Name, &typeStr, &createdAt, &updatedAt); err != nil {
		return nil, wrapNotFound("criterion", err)
	}
	c.Type = domain.CriterionType(typeStr)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
