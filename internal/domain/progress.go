package domain

import "time"

// UserCriterion is a user's progress record for one criterion within one
// container. Exactly one record exists per (user, criterion, container)
// tuple; records are created lazily with zero/false defaults.
//
// Which value field is meaningful follows the criterion's type: CountValue
// for countable, IsFulfilled for boolean. Text criteria hold no direct value
// here; the text ledger keeps their versioned entries.
type UserCriterion struct {
	ID          string
	UserID      string
	CriterionID string
	ContainerID *string // nil for user-global progress

	CountValue  int
	IsFulfilled bool
	Reviewed    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TextEntry is one versioned text value of a progress record. Among all
// entries of a UserCriterion at most one is active at any moment. The
// integer ID is allocated by the store and orders entries that share a
// creation timestamp.
type TextEntry struct {
	ID              int64
	UserCriterionID string
	Value           string
	Active          bool
	CreatedAt       time.Time
}
