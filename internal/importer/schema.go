package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Archive is the top-level JSON structure for a full-state export. Entities
// reference each other by symbolic ref, never by database id, so an archive
// imports cleanly into any target database.
type Archive struct {
	Criteria     []CriterionArchive   `json:"criteria"`
	Roles        []RoleArchive        `json:"roles,omitempty"`
	Users        []UserArchive        `json:"users,omitempty"`
	Containers   []ContainerArchive   `json:"containers"`
	Associations []AssociationArchive `json:"associations,omitempty"`
	Memberships  []MembershipArchive  `json:"memberships,omitempty"`
	Records      []RecordArchive      `json:"records,omitempty"`
}

// CriterionArchive defines one catalog entry in the archive.
type CriterionArchive struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RoleArchive defines one role in the archive.
type RoleArchive struct {
	Ref         string `json:"ref"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserArchive defines one user in the archive.
type UserArchive struct {
	Ref       string `json:"ref"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
}

// ContainerArchive defines one container. Containers appear parents before
// children; ParentRef nil marks a root.
type ContainerArchive struct {
	Ref         string  `json:"ref"`
	ParentRef   *string `json:"parent_ref,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Order       int     `json:"order"`
}

// AssociationArchive defines one weight entry. An empty RoleRef marks the
// default entry.
type AssociationArchive struct {
	ContainerRef string  `json:"container_ref"`
	CriterionRef string  `json:"criterion_ref"`
	RoleRef      string  `json:"role_ref,omitempty"`
	Weight       float64 `json:"weight"`
}

// MembershipArchive assigns a user a role within a container.
type MembershipArchive struct {
	UserRef      string `json:"user_ref"`
	ContainerRef string `json:"container_ref"`
	RoleRef      string `json:"role_ref"`
}

// RecordArchive defines one progress record with its text history.
// ContainerRef nil scopes the record user-globally.
type RecordArchive struct {
	UserRef      string             `json:"user_ref"`
	CriterionRef string             `json:"criterion_ref"`
	ContainerRef *string            `json:"container_ref,omitempty"`
	Count        int                `json:"count,omitempty"`
	Fulfilled    bool               `json:"fulfilled,omitempty"`
	Reviewed     bool               `json:"reviewed,omitempty"`
	Texts        []TextEntryArchive `json:"texts,omitempty"`
}

// TextEntryArchive is one versioned text value; entries appear oldest first.
type TextEntryArchive struct {
	Value     string `json:"value"`
	Active    bool   `json:"active,omitempty"`
	CreatedAt string `json:"created_at"`
}

// LoadArchive reads and parses an archive JSON file.
func LoadArchive(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("parsing archive file: %w", err)
	}
	return &archive, nil
}

// SaveArchive writes the archive as indented JSON.
func SaveArchive(path string, a *Archive) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
