package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
)

const commentColumns = `id, user_id, container_id, body, created_at, updated_at`

// SQLiteCommentRepo implements CommentRepo using a SQLite database.
type SQLiteCommentRepo struct {
	db db.DBTX
}

// NewSQLiteCommentRepo creates a new SQLiteCommentRepo.
func NewSQLiteCommentRepo(conn db.DBTX) *SQLiteCommentRepo {
	return &SQLiteCommentRepo{db: conn}
}

func (r *SQLiteCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO user_comments (id, user_id, container_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.ContainerID,
		c.Body,
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *SQLiteCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM user_comments WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var c domain.Comment
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.ContainerID, &c.Body, &createdAt, &updatedAt); err != nil {
		return nil, wrapNotFound("comment", err)
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func (r *SQLiteCommentRepo) ListForUserContainer(ctx context.Context, userID, containerID string) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM user_comments
		WHERE user_id = ? AND container_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, userID, containerID)
	if err != nil {
		return nil, fmt.Errorf("listing comments for user %s in container %s: %w", userID, containerID, err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.ContainerID, &c.Body, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (r *SQLiteCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	query := `UPDATE user_comments SET body = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, c.Body, c.UpdatedAt.Format(time.RFC3339), c.ID); err != nil {
		return fmt.Errorf("updating comment %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteCommentRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM user_comments WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting comment %s: %w", id, err)
	}
	return nil
}
