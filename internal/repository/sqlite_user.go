package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const userColumns = `id, first_name, last_name, email, created_at, updated_at`

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, first_name, last_name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.CreatedAt.Format(time.RFC3339),
		u.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user email %q: %w", u.Email, domain.ErrDuplicateName)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name, email`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		var createdAt, updatedAt string
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.CreatedAt = parseTime(createdAt)
		u.UpdatedAt = parseTime(updatedAt)
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET first_name = ?, last_name = ?, email = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		u.FirstName,
		u.LastName,
		u.Email,
		u.UpdatedAt.Format(time.RFC3339),
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user email %q: %w", u.Email, domain.ErrDuplicateName)
		}
		return fmt.Errorf("updating user %s: %w", u.ID, err)
	}
	return nil
}

func (r *SQLiteUserRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteUserRepo) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var createdAt, updatedAt string
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &createdAt, &updatedAt); err != nil {
		return nil, wrapNotFound("user", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}
