package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type userService struct {
	users repository.UserRepo
}

func NewUserService(users repository.UserRepo) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.users.Create(ctx, u)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Update(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, u)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
