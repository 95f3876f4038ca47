package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type roleService struct {
	roles       repository.RoleRepo
	users       repository.UserRepo
	containers  repository.ContainerRepo
	memberships repository.MembershipRepo
	uow         db.UnitOfWork
}

func NewRoleService(
	roles repository.RoleRepo,
	users repository.UserRepo,
	containers repository.ContainerRepo,
	memberships repository.MembershipRepo,
	uow db.UnitOfWork,
) RoleService {
	return &roleService{
		roles:       roles,
		users:       users,
		containers:  containers,
		memberships: memberships,
		uow:         uow,
	}
}

func (s *roleService) Create(ctx context.Context, r *domain.Role) error {
	if r.Name == "" {
		return fmt.Errorf("role name is empty: %w", domain.ErrInvalidValue)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.roles.Create(ctx, r)
}

func (s *roleService) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.GetByID(ctx, id)
}

func (s *roleService) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return s.roles.GetByName(ctx, name)
}

func (s *roleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}

// Delete runs the in-use check and the delete in one transaction so a
// concurrent assignment cannot slip between them.
func (s *roleService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRoles := repository.NewSQLiteRoleRepo(tx)
		used, err := txRoles.InUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("role %s has weight entries or memberships: %w", id, domain.ErrInUse)
		}
		return txRoles.Delete(ctx, id)
	})
}

// Assign gives the user the role within the container, replacing any role
// held there before.
func (s *roleService) Assign(ctx context.Context, userID, containerID, roleID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.containers.GetByID(ctx, containerID); err != nil {
		return err
	}
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.memberships.Assign(ctx, &domain.Membership{
		UserID:      userID,
		ContainerID: containerID,
		RoleID:      roleID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *roleService) RoleOf(ctx context.Context, userID, containerID string) (string, error) {
	return s.memberships.RoleOf(ctx, userID, containerID)
}

func (s *roleService) Unassign(ctx context.Context, userID, containerID string) error {
	return s.memberships.Remove(ctx, userID, containerID)
}

func (s *roleService) ListMembers(ctx context.Context, containerID string) ([]*domain.Membership, error) {
	return s.memberships.ListByContainer(ctx, containerID)
}
