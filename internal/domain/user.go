package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is a graded participant. The engine treats user identity as opaque;
// this directory exists so reconciliation can enumerate all users.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns "First Last", falling back to the email address when
// both name parts are blank.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Validate checks the fields enforced on create.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("user email is empty: %w", ErrInvalidValue)
	}
	return nil
}

// Comment is a free-text note attached to a user within a container.
type Comment struct {
	ID          string
	UserID      string
	ContainerID string
	Body        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
