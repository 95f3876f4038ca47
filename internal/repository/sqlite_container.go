package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const containerColumns = `id, parent_id, title, description, order_index, created_at, updated_at`

// SQLiteContainerRepo implements ContainerRepo using a SQLite database.
type SQLiteContainerRepo struct {
	db db.DBTX
}

// NewSQLiteContainerRepo creates a new SQLiteContainerRepo.
func NewSQLiteContainerRepo(conn db.DBTX) *SQLiteContainerRepo {
	return &SQLiteContainerRepo{db: conn}
}

func (r *SQLiteContainerRepo) Create(ctx context.Context, c *domain.Container) error {
	query := `INSERT INTO containers (id, parent_id, title, description, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		nullableString(c.ParentID),
		c.Title,
		c.Description,
		c.OrderIndex,
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting container: %w", err)
	}
	return nil
}

func (r *SQLiteContainerRepo) GetByID(ctx context.Context, id string) (*domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE id = ?`
	return r.scanContainer(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteContainerRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE parent_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child containers: %w", err)
	}
	defer rows.Close()
	return r.scanContainers(rows)
}

func (r *SQLiteContainerRepo) ListRoots(ctx context.Context) ([]*domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE parent_id IS NULL ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing root containers: %w", err)
	}
	defer rows.Close()
	return r.scanContainers(rows)
}

func (r *SQLiteContainerRepo) ListAll(ctx context.Context) ([]*domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	defer rows.Close()
	return r.scanContainers(rows)
}

func (r *SQLiteContainerRepo) Update(ctx context.Context, c *domain.Container) error {
	query := `UPDATE containers SET parent_id = ?, title = ?, description = ?, order_index = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableString(c.ParentID),
		c.Title,
		c.Description,
		c.OrderIndex,
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating container %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteContainerRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM containers WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting container %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteContainerRepo) NextOrderIndex(ctx context.Context, parentID *string) (int, error) {
	query := `SELECT COALESCE(MAX(order_index), -1) + 1 FROM containers WHERE parent_id IS ?`
	var next int
	if err := r.db.QueryRowContext(ctx, query, nullableString(parentID)).Scan(&next); err != nil {
		return 0, fmt.Errorf("computing next order index: %w", err)
	}
	return next, nil
}

func (r *SQLiteContainerRepo) scanContainer(row *sql.Row) (*domain.Container, error) {
	var c domain.Container
	var parentID sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &parentID, &c.Title, &c.Description, &c.OrderIndex, &createdAt, &updatedAt)
	if err != nil {
		return nil, wrapNotFound("container", err)
	}
	c.ParentID = stringPtr(parentID)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func (r *SQLiteContainerRepo) scanContainers(rows *sql.Rows) ([]*domain.Container, error) {
	var containers []*domain.Container
	for rows.Next() {
		var c domain.Container
		var parentID sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &parentID, &c.Title, &c.Description, &c.OrderIndex, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		c.ParentID = stringPtr(parentID)
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		containers = append(containers, &c)
	}
	return containers, rows.Err()
}
