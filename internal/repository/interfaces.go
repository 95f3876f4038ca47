package repository

import (
	"context"

	"github.com/gradetrack/gradetrack/internal/domain"
)

type CriterionRepo interface {
	Create(ctx context.Context, c *domain.Criterion) error
	GetByID(ctx context.Context, id string) (*domain.Criterion, error)
	GetByName(ctx context.Context, name string) (*domain.Criterion, error)
	List(ctx context.Context) ([]*domain.Criterion, error)
	Delete(ctx context.Context, id string) error
	// InUse reports whether any association or progress record references
	// the criterion.
	InUse(ctx context.Context, id string) (bool, error)
}

type ContainerRepo interface {
	Create(ctx context.Context, c *domain.Container) error
	GetByID(ctx context.Context, id string) (*domain.Container, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Container, error)
	ListRoots(ctx context.Context) ([]*domain.Container, error)
	ListAll(ctx context.Context) ([]*domain.Container, error)
	Update(ctx context.Context, c *domain.Container) error
	Delete(ctx context.Context, id string) error
	// NextOrderIndex returns the order index a new child of parentID should
	// take (nil parentID addresses the root level).
	NextOrderIndex(ctx context.Context, parentID *string) (int, error)
}

type AssociationRepo interface {
	// Upsert inserts the association or, when the (container, criterion,
	// role) key exists, updates its weight in place.
	Upsert(ctx context.Context, a *domain.ContainerCriterion) error
	Get(ctx context.Context, containerID, criterionID, roleID string) (*domain.ContainerCriterion, error)
	ListByContainer(ctx context.Context, containerID string) ([]*domain.ContainerCriterion, error)
	ListAll(ctx context.Context) ([]*domain.ContainerCriterion, error)
	Remove(ctx context.Context, containerID, criterionID, roleID string) error
	CountByRole(ctx context.Context, roleID string) (int, error)
}

type ProgressRepo interface {
	// GetOrCreate returns the progress record for the key, inserting one
	// with zero/false defaults first if none exists. Concurrent calls on
	// the same key converge on a single row.
	GetOrCreate(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error)
	Get(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error)
	GetByID(ctx context.Context, id string) (*domain.UserCriterion, error)
	// AddCount adjusts the counter by delta, flooring at zero.
	AddCount(ctx context.Context, id string, delta int) error
	SetFulfilled(ctx context.Context, id string, value bool) error
	SetReviewed(ctx context.Context, id string, value bool) error
	ListByContainer(ctx context.Context, containerID string) ([]*domain.UserCriterion, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.UserCriterion, error)
	ListAll(ctx context.Context) ([]*domain.UserCriterion, error)
}

type TextEntryRepo interface {
	DeactivateAll(ctx context.Context, userCriterionID string) error
	// Insert stores a new entry and fills in its allocated ID.
	Insert(ctx context.Context, e *domain.TextEntry) error
	Active(ctx context.Context, userCriterionID string) (*domain.TextEntry, error)
	RecentInactive(ctx context.Context, userCriterionID string, limit int) ([]*domain.TextEntry, error)
	ListByRecord(ctx context.Context, userCriterionID string) ([]*domain.TextEntry, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type RoleRepo interface {
	Create(ctx context.Context, r *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Update(ctx context.Context, r *domain.Role) error
	Delete(ctx context.Context, id string) error
	// InUse reports whether any weight entry or membership references the role.
	InUse(ctx context.Context, id string) (bool, error)
}

type MembershipRepo interface {
	// Assign sets the user's role in a container, replacing any previous one.
	Assign(ctx context.Context, m *domain.Membership) error
	// RoleOf returns the user's role in the container, or domain.RoleNone
	// when the user holds none.
	RoleOf(ctx context.Context, userID, containerID string) (string, error)
	Remove(ctx context.Context, userID, containerID string) error
	ListByContainer(ctx context.Context, containerID string) ([]*domain.Membership, error)
	ListAll(ctx context.Context) ([]*domain.Membership, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListForUserContainer(ctx context.Context, userID, containerID string) ([]*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
}
