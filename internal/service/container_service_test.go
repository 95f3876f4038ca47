package service

import (
	"context"
	"testing"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerService_CreateAssignsOrderIndex(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)
	a := env.mustContainer(t, ctx, "Phase 1", &root.ID)
	b := env.mustContainer(t, ctx, "Phase 2", &root.ID)

	assert.Equal(t, 0, a.OrderIndex)
	assert.Equal(t, 1, b.OrderIndex)

	children, err := env.containers.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Phase 1", children[0].Title)
	assert.Equal(t, "Phase 2", children[1].Title)
}

func TestContainerService_CreateUnderMissingParent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ghost := "no-such-container"
	err := env.containers.Create(ctx, &domain.Container{Title: "Orphan", ParentID: &ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContainerService_SetParentMovesSubtree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)
	phase := env.mustContainer(t, ctx, "Phase 1", &root.ID)
	week := env.mustContainer(t, ctx, "Week 3", &phase.ID)
	other := env.mustContainer(t, ctx, "Archive", nil)

	require.NoError(t, env.containers.SetParent(ctx, phase.ID, &other.ID))

	moved, err := env.containers.GetByID(ctx, phase.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, other.ID, *moved.ParentID)

	// The grandchild stays attached to the moved node.
	child, err := env.containers.GetByID(ctx, week.ID)
	require.NoError(t, err)
	assert.Equal(t, phase.ID, *child.ParentID)
}

func TestContainerService_SetParentRejectsCycles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)
	phase := env.mustContainer(t, ctx, "Phase 1", &root.ID)
	week := env.mustContainer(t, ctx, "Week 3", &phase.ID)

	err := env.containers.SetParent(ctx, root.ID, &root.ID)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	err = env.containers.SetParent(ctx, root.ID, &week.ID)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	// The rejected move leaves the tree exactly as it was.
	got, err := env.containers.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
	gotWeek, err := env.containers.GetByID(ctx, week.ID)
	require.NoError(t, err)
	assert.Equal(t, phase.ID, *gotWeek.ParentID)
}

func TestContainerService_SetParentToRootLevel(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)
	phase := env.mustContainer(t, ctx, "Phase 1", &root.ID)

	require.NoError(t, env.containers.SetParent(ctx, phase.ID, nil))

	got, err := env.containers.GetByID(ctx, phase.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	roots, err := env.containers.ListRoots(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestContainerService_AttachCriterionValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	crit := env.mustCriterion(t, ctx, "Commits", domain.CriterionCountable)
	cont := env.mustContainer(t, ctx, "Sprint", nil)

	err := env.containers.AttachCriterion(ctx, &domain.ContainerCriterion{
		ContainerID: cont.ID, CriterionID: crit.ID, Weight: -2,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	err = env.containers.AttachCriterion(ctx, &domain.ContainerCriterion{
		ContainerID: cont.ID, CriterionID: "ghost", Weight: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = env.containers.AttachCriterion(ctx, &domain.ContainerCriterion{
		ContainerID: cont.ID, CriterionID: crit.ID, RoleID: "ghost-role", Weight: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContainerService_AttachCriterionUpsertsWeight(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	crit := env.mustCriterion(t, ctx, "Commits", domain.CriterionCountable)
	cont := env.mustContainer(t, ctx, "Sprint", nil)

	env.mustAttach(t, ctx, cont.ID, crit.ID, domain.RoleNone, 1)
	env.mustAttach(t, ctx, cont.ID, crit.ID, domain.RoleNone, 4)

	entries, err := env.containers.ListCriteria(ctx, cont.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4.0, entries[0].Weight)
}

func TestContainerService_CopyClonesSubtreeWithoutProgress(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	crit := env.mustCriterion(t, ctx, "Commits", domain.CriterionCountable)
	root := env.mustContainer(t, ctx, "Template Phase", nil)
	week := env.mustContainer(t, ctx, "Week 1", &root.ID)
	env.mustAttach(t, ctx, root.ID, crit.ID, domain.RoleNone, 2)
	env.mustAttach(t, ctx, week.ID, crit.ID, domain.RoleNone, 3)

	user := env.mustUser(t, ctx, "sol")
	_, err := env.progress.Increment(ctx, user.ID, crit.ID, &week.ID)
	require.NoError(t, err)

	clone, err := env.containers.Copy(ctx, root.ID, "Live Phase", nil)
	require.NoError(t, err)
	assert.NotEqual(t, root.ID, clone.ID)
	assert.Equal(t, "Live Phase", clone.Title)

	cloneChildren, err := env.containers.ListChildren(ctx, clone.ID)
	require.NoError(t, err)
	require.Len(t, cloneChildren, 1)
	assert.Equal(t, "Week 1", cloneChildren[0].Title)

	cloneEntries, err := env.containers.ListCriteria(ctx, cloneChildren[0].ID)
	require.NoError(t, err)
	require.Len(t, cloneEntries, 1)
	assert.Equal(t, 3.0, cloneEntries[0].Weight)

	// Progress never follows a copy.
	records, err := env.progress.ListByContainer(ctx, cloneChildren[0].ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestContainerService_CopyIntoOwnSubtreeRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)
	phase := env.mustContainer(t, ctx, "Phase 1", &root.ID)
	week := env.mustContainer(t, ctx, "Week 1", &phase.ID)

	// Directly under itself.
	_, err := env.containers.Copy(ctx, root.ID, "Program Copy", &root.ID)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	// Under a deeper descendant.
	_, err = env.containers.Copy(ctx, root.ID, "Program Copy", &week.ID)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	// Nothing was written.
	children, err := env.containers.ListChildren(ctx, week.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
	roots, err := env.containers.ListRoots(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func TestContainerService_CopyRequiresTitle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)

	_, err := env.containers.Copy(ctx, root.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestContainerService_CopyRenamesOnlyRoot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)
	env.mustContainer(t, ctx, "Phase 1", &root.ID)
	target := env.mustContainer(t, ctx, "Archive", nil)

	clone, err := env.containers.Copy(ctx, root.ID, "Program 2027", &target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Program 2027", clone.Title)
	require.NotNil(t, clone.ParentID)
	assert.Equal(t, target.ID, *clone.ParentID)

	children, err := env.containers.ListChildren(ctx, clone.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Phase 1", children[0].Title)
}

func TestContainerService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root := env.mustContainer(t, ctx, "Program", nil)
	phase := env.mustContainer(t, ctx, "Phase 1", &root.ID)

	require.NoError(t, env.containers.Delete(ctx, root.ID))

	_, err := env.containers.GetByID(ctx, phase.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = env.containers.Delete(ctx, root.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
