package repository

import (
	"context"
	"testing"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRoleRepo(testutil.NewTestDB(t))

	role := testutil.NewTestRole("mentor")
	require.NoError(t, repo.Create(ctx, role))

	byName, err := repo.GetByName(ctx, "mentor")
	require.NoError(t, err)
	assert.Equal(t, role.ID, byName.ID)
}

func TestRoleRepo_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRoleRepo(testutil.NewTestDB(t))

	require.NoError(t, repo.Create(ctx, testutil.NewTestRole("mentor")))
	err := repo.Create(ctx, testutil.NewTestRole("mentor"))
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestRoleRepo_InUse(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	roles := NewSQLiteRoleRepo(database)
	users := NewSQLiteUserRepo(database)
	containers := NewSQLiteContainerRepo(database)
	memberships := NewSQLiteMembershipRepo(database)

	role := testutil.NewTestRole("mentor")
	require.NoError(t, roles.Create(ctx, role))

	used, err := roles.InUse(ctx, role.ID)
	require.NoError(t, err)
	assert.False(t, used)

	user := testutil.NewTestUser("pilar")
	cont := testutil.NewTestContainer("Cohort A")
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, containers.Create(ctx, cont))
	require.NoError(t, memberships.Assign(ctx, testutil.NewTestMembership(user.ID, cont.ID, role.ID)))

	used, err = roles.InUse(ctx, role.ID)
	require.NoError(t, err)
	assert.True(t, used, "membership references keep the role in use")
}

func TestRoleRepo_InUseByWeightOverride(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	roles := NewSQLiteRoleRepo(database)
	assocs := NewSQLiteAssociationRepo(database)
	containers := NewSQLiteContainerRepo(database)
	criteria := NewSQLiteCriterionRepo(database)

	role := testutil.NewTestRole("mentor")
	cont := testutil.NewTestContainer("Cohort A")
	crit := testutil.NewTestCriterion("Reviews", domain.CriterionCountable)
	require.NoError(t, roles.Create(ctx, role))
	require.NoError(t, containers.Create(ctx, cont))
	require.NoError(t, criteria.Create(ctx, crit))
	require.NoError(t, assocs.Upsert(ctx, testutil.NewTestRoleAssociation(cont.ID, crit.ID, role.ID, 2)))

	used, err := roles.InUse(ctx, role.ID)
	require.NoError(t, err)
	assert.True(t, used, "role-scoped weights keep the role in use")
}
