package domain

import (
	"fmt"
	"time"
)

type CriterionType string

const (
	CriterionCountable CriterionType = "countable"
	CriterionBoolean   CriterionType = "boolean"
	CriterionText      CriterionType = "text"
)

// ParseCriterionType converts a string into a CriterionType.
func ParseCriterionType(s string) (CriterionType, error) {
	switch CriterionType(s) {
	case CriterionCountable, CriterionBoolean, CriterionText:
		return CriterionType(s), nil
	default:
		return "", fmt.Errorf("criterion type %q: %w", s, ErrInvalidValue)
	}
}

// Criterion is a named, typed gradable item. The type is fixed at creation
// and never mutated afterwards.
type Criterion struct {
	ID        string
	Name      string
	Type      CriterionType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields that the catalog enforces on create.
func (c *Criterion) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("criterion name is empty: %w", ErrInvalidValue)
	}
	if _, err := ParseCriterionType(string(c.Type)); err != nil {
		return err
	}
	return nil
}
