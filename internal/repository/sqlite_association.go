package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const associationColumns = `container_id, criterion_id, role_id, weight, created_at, updated_at`

// SQLiteAssociationRepo implements AssociationRepo using a SQLite database.
type SQLiteAssociationRepo struct {
	db db.DBTX
}

// NewSQLiteAssociationRepo creates a new SQLiteAssociationRepo.
func NewSQLiteAssociationRepo(conn db.DBTX) *SQLiteAssociationRepo {
	return &SQLiteAssociationRepo{db: conn}
}

func (r *SQLiteAssociationRepo) Upsert(ctx context.Context, a *domain.ContainerCriterion) error {
	query := `INSERT INTO container_criteria (container_id, criterion_id, role_id, weight, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(container_id, criterion_id, role_id)
		DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		a.ContainerID,
		a.CriterionID,
		a.RoleID,
		a.Weight,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting association (%s, %s, %q): %w", a.ContainerID, a.CriterionID, a.RoleID, err)
	}
	return nil
}

func (r *SQLiteAssociationRepo) Get(ctx context.Context, containerID, criterionID, roleID string) (*domain.ContainerCriterion, error) {
	query := `SELECT ` + associationColumns + ` FROM container_criteria
		WHERE container_id = ? AND criterion_id = ? AND role_id = ?`
	return r.scanAssociation(r.db.QueryRowContext(ctx, query, containerID, criterionID, roleID))
}

// ListByContainer returns the container's associations in insertion order.
func (r *SQLiteAssociationRepo) ListByContainer(ctx context.Context, containerID string) ([]*domain.ContainerCriterion, error) {
	query := `SELECT ` + associationColumns + ` FROM container_criteria WHERE container_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, containerID)
	if err != nil {
		return nil, fmt.Errorf("listing associations for container %s: %w", containerID, err)
	}
	defer rows.Close()
	return r.scanAssociations(rows)
}

func (r *SQLiteAssociationRepo) ListAll(ctx context.Context) ([]*domain.ContainerCriterion, error) {
	query := `SELECT ` + associationColumns + ` FROM container_criteria ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing associations: %w", err)
	}
	defer rows.Close()
	return r.scanAssociations(rows)
}

func (r *SQLiteAssociationRepo) Remove(ctx context.Context, containerID, criterionID, roleID string) error {
	query := `DELETE FROM container_criteria WHERE container_id = ? AND criterion_id = ? AND role_id = ?`
	if _, err := r.db.ExecContext(ctx, query, containerID, criterionID, roleID); err != nil {
		return fmt.Errorf("removing association (%s, %s, %q): %w", containerID, criterionID, roleID, err)
	}
	return nil
}

func (r *SQLiteAssociationRepo) CountByRole(ctx context.Context, roleID string) (int, error) {
	query := `SELECT COUNT(*) FROM container_criteria WHERE role_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, query, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting associations for role %s: %w", roleID, err)
	}
	return n, nil
}

func (r *SQLiteAssociationRepo) scanAssociation(row *sql.Row) (*domain.ContainerCriterion, error) {
	var a domain.ContainerCriterion
	var createdAt, updatedAt string
	err := row.Scan(&a.ContainerID, &a.CriterionID, &a.RoleID, &a.Weight, &createdAt, &updatedAt)
	if err != nil {
		return nil, wrapNotFound("association", err)
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}

func (r *SQLiteAssociationRepo) scanAssociations(rows *sql.Rows) ([]*domain.ContainerCriterion, error) {
	var assocs []*domain.ContainerCriterion
	for rows.Next() {
		var a domain.ContainerCriterion
		var createdAt, updatedAt string
		if err := rows.Scan(&a.ContainerID, &a.CriterionID, &a.RoleID, &a.Weight, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning association: %w", err)
		}
		a.CreatedAt = parseTime(createdAt)
		a.UpdatedAt = parseTime(updatedAt)
		assocs = append(assocs, &a)
	}
	return assocs, rows.Err()
}
