package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type commentService struct {
	comments   repository.CommentRepo
	users      repository.UserRepo
	containers repository.ContainerRepo
}

func NewCommentService(
	comments repository.CommentRepo,
	users repository.UserRepo,
	containers repository.ContainerRepo,
) CommentService {
	return &commentService{comments: comments, users: users, containers: containers}
}

func (s *commentService) Add(ctx context.Context, c *domain.Comment) error {
	if c.Body == "" {
		return fmt.Errorf("comment body is empty: %w", domain.ErrInvalidValue)
	}
	if _, err := s.users.GetByID(ctx, c.UserID); err != nil {
		return err
	}
	if _, err := s.containers.GetByID(ctx, c.ContainerID); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.comments.Create(ctx, c)
}

func (s *commentService) ListFor(ctx context.Context, userID, containerID string) ([]*domain.Comment, error) {
	return s.comments.ListForUserContainer(ctx, userID, containerID)
}

func (s *commentService) Update(ctx context.Context, c *domain.Comment) error {
	if c.Body == "" {
		return fmt.Errorf("comment body is empty: %w", domain.ErrInvalidValue)
	}
	c.UpdatedAt = time.Now().UTC()
	return s.comments.Update(ctx, c)
}

func (s *commentService) Delete(ctx context.Context, id string) error {
	return s.comments.Delete(ctx, id)
}
