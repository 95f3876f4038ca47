package domain

import "time"

// Container is a session or phase node in the evaluation hierarchy. A
// container with a nil ParentID is a root; the parent relation forms a
// forest and is kept acyclic by the tree service.
type Container struct {
	ID          string
	ParentID    *string // nil for roots
	Title       string
	Description string
	OrderIndex  int // sibling insertion order
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot reports whether the container has no parent.
func (c *Container) IsRoot() bool {
	return c.ParentID == nil
}

// RoleNone is the role key of the default (no-role) weight entry on an
// association. It is also what the membership lookup reports for users
// that hold no role in a container.
const RoleNone = ""

// ContainerCriterion associates a criterion with a container and carries the
// weight used for that pairing. RoleID scopes the weight to users holding
// that role; RoleNone marks the default entry every user falls back to.
type ContainerCriterion struct {
	ContainerID string
	CriterionID string
	RoleID      string // RoleNone for the default entry
	Weight      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
