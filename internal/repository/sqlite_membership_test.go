package repository

import (
	"context"
	"testing"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type membershipFixture struct {
	memberships *SQLiteMembershipRepo
	user        *domain.User
	cont        *domain.Container
	roleA       *domain.Role
	roleB       *domain.Role
}

func newMembershipFixture(t *testing.T, ctx context.Context) membershipFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(database)
	containers := NewSQLiteContainerRepo(database)
	roles := NewSQLiteRoleRepo(database)

	f := membershipFixture{
		memberships: NewSQLiteMembershipRepo(database),
		user:        testutil.NewTestUser("odile"),
		cont:        testutil.NewTestContainer("Cohort B"),
		roleA:       testutil.NewTestRole("apprentice"),
		roleB:       testutil.NewTestRole("mentor"),
	}
	require.NoError(t, users.Create(ctx, f.user))
	require.NoError(t, containers.Create(ctx, f.cont))
	require.NoError(t, roles.Create(ctx, f.roleA))
	require.NoError(t, roles.Create(ctx, f.roleB))
	return f
}

func TestMembershipRepo_AssignAndRoleOf(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, ctx)

	m := testutil.NewTestMembership(f.user.ID, f.cont.ID, f.roleA.ID)
	require.NoError(t, f.memberships.Assign(ctx, m))

	roleID, err := f.memberships.RoleOf(ctx, f.user.ID, f.cont.ID)
	require.NoError(t, err)
	assert.Equal(t, f.roleA.ID, roleID)
}

func TestMembershipRepo_ReassignReplacesRole(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, ctx)

	require.NoError(t, f.memberships.Assign(ctx, testutil.NewTestMembership(f.user.ID, f.cont.ID, f.roleA.ID)))
	require.NoError(t, f.memberships.Assign(ctx, testutil.NewTestMembership(f.user.ID, f.cont.ID, f.roleB.ID)))

	roleID, err := f.memberships.RoleOf(ctx, f.user.ID, f.cont.ID)
	require.NoError(t, err)
	assert.Equal(t, f.roleB.ID, roleID, "one role per user per container")

	all, err := f.memberships.ListByContainer(ctx, f.cont.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMembershipRepo_RoleOfUnassigned(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, ctx)

	roleID, err := f.memberships.RoleOf(ctx, f.user.ID, f.cont.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNone, roleID, "no membership means the empty role, not an error")
}

func TestMembershipRepo_Remove(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, ctx)

	require.NoError(t, f.memberships.Assign(ctx, testutil.NewTestMembership(f.user.ID, f.cont.ID, f.roleA.ID)))
	require.NoError(t, f.memberships.Remove(ctx, f.user.ID, f.cont.ID))

	roleID, err := f.memberships.RoleOf(ctx, f.user.ID, f.cont.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNone, roleID)
}
