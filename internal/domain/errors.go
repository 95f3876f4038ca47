package domain

import "errors"

// Sentinel errors for the engine's recoverable error taxonomy. Callers match
// with errors.Is; call sites wrap them with the identifying keys involved.
var (
	// ErrNotFound indicates a missing criterion, container, user, role or
	// progress record reference.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName indicates a catalog or role name collision.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrTypeMismatch indicates an operation invoked on the wrong criterion
	// type, e.g. increment on a boolean criterion.
	ErrTypeMismatch = errors.New("criterion type mismatch")

	// ErrInvalidValue indicates an empty or malformed value, e.g. blank text
	// or a negative weight.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInUse indicates a deletion blocked by referential dependents.
	ErrInUse = errors.New("in use")

	// ErrCycleDetected indicates a parent assignment that would make a
	// container its own ancestor.
	ErrCycleDetected = errors.New("container cycle detected")
)
