package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gradetrack/gradetrack/internal/domain"
)

var testEmailCounter atomic.Int64

// NewTestCriterion builds a criterion of the given type with a fresh id.
func NewTestCriterion(name string, typ domain.CriterionType) *domain.Criterion {
	now := time.Now().UTC()
	return &domain.Criterion{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      typ,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ContainerOption mutates a test container before use.
type ContainerOption func(*domain.Container)

func WithParent(parentID string) ContainerOption {
	return func(c *domain.Container) {
		c.ParentID = &parentID
	}
}

func WithDescription(desc string) ContainerOption {
	return func(c *domain.Container) {
		c.Description = desc
	}
}

func WithOrderIndex(i int) ContainerOption {
	return func(c *domain.Container) {
		c.OrderIndex = i
	}
}

// NewTestContainer builds a root container unless WithParent is given.
func NewTestContainer(title string, opts ...ContainerOption) *domain.Container {
	now := time.Now().UTC()
	c := &domain.Container{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTestAssociation builds a default-role weight entry.
func NewTestAssociation(containerID, criterionID string, weight float64) *domain.ContainerCriterion {
	now := time.Now().UTC()
	return &domain.ContainerCriterion{
		ContainerID: containerID,
		CriterionID: criterionID,
		RoleID:      domain.RoleNone,
		Weight:      weight,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestRoleAssociation builds a role-scoped weight entry.
func NewTestRoleAssociation(containerID, criterionID, roleID string, weight float64) *domain.ContainerCriterion {
	a := NewTestAssociation(containerID, criterionID, weight)
	a.RoleID = roleID
	return a
}

// NewTestUser builds a user with a unique email derived from name.
func NewTestUser(name string) *domain.User {
	now := time.Now().UTC()
	n := testEmailCounter.Add(1)
	return &domain.User{
		ID:        uuid.New().String(),
		FirstName: name,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s.%d@example.test", name, n),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestRole builds a role with a fresh id.
func NewTestRole(name string) *domain.Role {
	now := time.Now().UTC()
	return &domain.Role{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestMembership assigns roleID to user in container.
func NewTestMembership(userID, containerID, roleID string) *domain.Membership {
	now := time.Now().UTC()
	return &domain.Membership{
		UserID:      userID,
		ContainerID: containerID,
		RoleID:      roleID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestComment builds a comment for user in container.
func NewTestComment(userID, containerID, body string) *domain.Comment {
	now := time.Now().UTC()
	return &domain.Comment{
		ID:          uuid.New().String(),
		UserID:      userID,
		ContainerID: containerID,
		Body:        body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
