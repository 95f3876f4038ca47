package domain

import "time"

// Role names a function a user can hold within a container, e.g. reviewer
// or lead. Role-scoped weight entries on associations reference roles by ID.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Membership assigns a user at most one role per container.
type Membership struct {
	UserID      string
	ContainerID string
	RoleID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
