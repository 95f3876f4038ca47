package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const roleColumns = `id, name, description, created_at, updated_at`

// SQLiteRoleRepo implements RoleRepo using a SQLite database.
type SQLiteRoleRepo struct {
	db db.DBTX
}

// NewSQLiteRoleRepo creates a new SQLiteRoleRepo.
func NewSQLiteRoleRepo(conn db.DBTX) *SQLiteRoleRepo {
	return &SQLiteRoleRepo{db: conn}
}

func (r *SQLiteRoleRepo) Create(ctx context.Context, role *domain.Role) error {
	query := `INSERT INTO roles (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		role.ID,
		role.Name,
		role.Description,
		role.CreatedAt.Format(time.RFC3339),
		role.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("role name %q: %w", role.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("inserting role: %w", err)
	}
	return nil
}

func (r *SQLiteRoleRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = ?`
	return r.scanRole(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRoleRepo) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = ?`
	return r.scanRole(r.db.QueryRowContext(ctx, query, name))
}

func (r *SQLiteRoleRepo) List(ctx context.Context) ([]*domain.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		var role domain.Role
		var createdAt, updatedAt string
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		role.CreatedAt = parseTime(createdAt)
		role.UpdatedAt = parseTime(updatedAt)
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}

func (r *SQLiteRoleRepo) Update(ctx context.Context, role *domain.Role) error {
	query := `UPDATE roles SET name = ?, description = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		role.Name,
		role.Description,
		role.UpdatedAt.Format(time.RFC3339),
		role.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("role name %q: %w", role.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("updating role %s: %w", role.ID, err)
	}
	return nil
}

func (r *SQLiteRoleRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM roles WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting role %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRoleRepo) InUse(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM container_criteria WHERE role_id = ?)
		OR EXISTS(SELECT 1 FROM user_container_roles WHERE role_id = ?)`
	var used int
	if err := r.db.QueryRowContext(ctx, query, id, id).Scan(&used); err != nil {
		return false, fmt.Errorf("checking role %s dependents: %w", id, err)
	}
	return intToBool(used), nil
}

func (r *SQLiteRoleRepo) scanRole(row *sql.Row) (*domain.Role, error) {
	var role domain.Role
	var createdAt, updatedAt string
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &createdAt, &updatedAt); err != nil {
		return nil, wrapNotFound("role", err)
	}
	role.CreatedAt = parseTime(createdAt)
	role.UpdatedAt = parseTime(updatedAt)
	return &role, nil
}
