package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const membershipColumns = `user_id, container_id, role_id, created_at, updated_at`

// SQLiteMembershipRepo implements MembershipRepo using a SQLite database.
type SQLiteMembershipRepo struct {
	db db.DBTX
}

// NewSQLiteMembershipRepo creates a new SQLiteMembershipRepo.
func NewSQLiteMembershipRepo(conn db.DBTX) *SQLiteMembershipRepo {
	return &SQLiteMembershipRepo{db: conn}
}

func (r *SQLiteMembershipRepo) Assign(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO user_container_roles (user_id, container_id, role_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, container_id)
		DO UPDATE SET role_id = excluded.role_id, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		m.UserID,
		m.ContainerID,
		m.RoleID,
		m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("assigning role for user %s in container %s: %w", m.UserID, m.ContainerID, err)
	}
	return nil
}

func (r *SQLiteMembershipRepo) RoleOf(ctx context.Context, userID, containerID string) (string, error) {
	query := `SELECT role_id FROM user_container_roles WHERE user_id = ? AND container_id = ?`
	var roleID string
	err := r.db.QueryRowContext(ctx, query, userID, containerID).Scan(&roleID)
	if err == sql.ErrNoRows {
		return domain.RoleNone, nil
	}
	if err != nil {
		return domain.RoleNone, fmt.Errorf("looking up role for user %s in container %s: %w", userID, containerID, err)
	}
	return roleID, nil
}

func (r *SQLiteMembershipRepo) Remove(ctx context.Context, userID, containerID string) error {
	query := `DELETE FROM user_container_roles WHERE user_id = ? AND container_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID, containerID); err != nil {
		return fmt.Errorf("removing membership (%s, %s): %w", userID, containerID, err)
	}
	return nil
}

func (r *SQLiteMembershipRepo) ListByContainer(ctx context.Context, containerID string) ([]*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM user_container_roles WHERE container_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, containerID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships for container %s: %w", containerID, err)
	}
	defer rows.Close()
	return r.scanMemberships(rows)
}

func (r *SQLiteMembershipRepo) ListAll(ctx context.Context) ([]*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM user_container_roles ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	defer rows.Close()
	return r.scanMemberships(rows)
}

func (r *SQLiteMembershipRepo) scanMemberships(rows *sql.Rows) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	for rows.Next() {
		var m domain.Membership
		var createdAt, updatedAt string
		if err := rows.Scan(&m.UserID, &m.ContainerID, &m.RoleID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning membership: %w", err)
		}
		m.CreatedAt = parseTime(createdAt)
		m.UpdatedAt = parseTime(updatedAt)
		memberships = append(memberships, &m)
	}
	return memberships, rows.Err()
}
