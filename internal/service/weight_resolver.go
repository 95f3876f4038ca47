package service

import (
	"context"
	"errors"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

// DefaultWeight is what a criterion counts for when its container carries
// no weight entry applicable to the user.
const DefaultWeight = 1.0

type weightResolver struct {
	assocs      repository.AssociationRepo
	memberships repository.MembershipRepo
}

func NewWeightResolver(assocs repository.AssociationRepo, memberships repository.MembershipRepo) WeightResolver {
	return &weightResolver{assocs: assocs, memberships: memberships}
}

// EffectiveWeight resolves strictly: a role-scoped entry for the user's role
// in the container wins, else the container's default entry, else
// DefaultWeight. A role-scoped entry never applies to users holding a
// different role or none.
func (r *weightResolver) EffectiveWeight(ctx context.Context, userID, containerID, criterionID string) (float64, error) {
	roleID, err := r.memberships.RoleOf(ctx, userID, containerID)
	if err != nil {
		return 0, err
	}
	if roleID != domain.RoleNone {
		entry, err := r.assocs.Get(ctx, containerID, criterionID, roleID)
		if err == nil {
			return entry.Weight, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
	}
	entry, err := r.assocs.Get(ctx, containerID, criterionID, domain.RoleNone)
	if err == nil {
		return entry.Weight, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	return DefaultWeight, nil
}

// memoWeightResolver caches resolutions for the lifetime of one evaluation
// pass. Not safe for concurrent use; build one per Evaluate call.
type memoWeightResolver struct {
	inner WeightResolver
	cache map[weightKey]float64
}

type weightKey struct {
	userID      string
	containerID string
	criterionID string
}

func newMemoWeightResolver(inner WeightResolver) *memoWeightResolver {
	return &memoWeightResolver{inner: inner, cache: make(map[weightKey]float64)}
}

func (m *memoWeightResolver) EffectiveWeight(ctx context.Context, userID, containerID, criterionID string) (float64, error) {
	key := weightKey{userID: userID, containerID: containerID, criterionID: criterionID}
	if w, ok := m.cache[key]; ok {
		return w, nil
	}
	w, err := m.inner.EffectiveWeight(ctx, userID, containerID, criterionID)
	if err != nil {
		return 0, err
	}
	m.cache[key] = w
	return w, nil
}
