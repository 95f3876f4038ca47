package repository

import (
	"context"
	"testing"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedContainerCriterion(t *testing.T, ctx context.Context, contRepo *SQLiteContainerRepo, critRepo *SQLiteCriterionRepo) (*domain.Container, *domain.Criterion) {
	t.Helper()
	cont := testutil.NewTestContainer("Session")
	require.NoError(t, contRepo.Create(ctx, cont))
	crit := testutil.NewTestCriterion("Effort", domain.CriterionCountable)
	require.NoError(t, critRepo.Create(ctx, crit))
	return cont, crit
}

func TestAssociationRepo_UpsertInsertsThenUpdates(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	contRepo := NewSQLiteContainerRepo(db)
	critRepo := NewSQLiteCriterionRepo(db)
	repo := NewSQLiteAssociationRepo(db)

	cont, crit := seedContainerCriterion(t, ctx, contRepo, critRepo)

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestAssociation(cont.ID, crit.ID, 2)))

	got, err := repo.Get(ctx, cont.ID, crit.ID, domain.RoleNone)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Weight)

	// Same key again: weight updates in place, no second row.
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestAssociation(cont.ID, crit.ID, 3.5)))

	got, err = repo.Get(ctx, cont.ID, crit.ID, domain.RoleNone)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Weight)

	list, err := repo.ListByContainer(ctx, cont.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAssociationRepo_RoleScopedEntriesCoexist(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	contRepo := NewSQLiteContainerRepo(db)
	critRepo := NewSQLiteCriterionRepo(db)
	roleRepo := NewSQLiteRoleRepo(db)
	repo := NewSQLiteAssociationRepo(db)

	cont, crit := seedContainerCriterion(t, ctx, contRepo, critRepo)
	role := testutil.NewTestRole("reviewer")
	require.NoError(t, roleRepo.Create(ctx, role))

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestAssociation(cont.ID, crit.ID, 1)))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestRoleAssociation(cont.ID, crit.ID, role.ID, 3)))

	list, err := repo.ListByContainer(ctx, cont.ID)
	require.NoError(t, err)
	require.Len(t, list, 2, "default and role entry are distinct keys")

	n, err := repo.CountByRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAssociationRepo_GetMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteAssociationRepo(db)

	_, err := repo.Get(context.Background(), "c", "x", domain.RoleNone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssociationRepo_ListInsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	contRepo := NewSQLiteContainerRepo(db)
	critRepo := NewSQLiteCriterionRepo(db)
	repo := NewSQLiteAssociationRepo(db)

	cont := testutil.NewTestContainer("Session")
	require.NoError(t, contRepo.Create(ctx, cont))

	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		crit := testutil.NewTestCriterion(n, domain.CriterionBoolean)
		require.NoError(t, critRepo.Create(ctx, crit))
		require.NoError(t, repo.Upsert(ctx, testutil.NewTestAssociation(cont.ID, crit.ID, 1)))
	}

	list, err := repo.ListByContainer(ctx, cont.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	critRepoNames := make([]string, 0, 3)
	for _, a := range list {
		c, err := critRepo.GetByID(ctx, a.CriterionID)
		require.NoError(t, err)
		critRepoNames = append(critRepoNames, c.Name)
	}
	assert.Equal(t, names, critRepoNames, "associations keep insertion order")
}

func TestAssociationRepo_Remove(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	contRepo := NewSQLiteContainerRepo(db)
	critRepo := NewSQLiteCriterionRepo(db)
	repo := NewSQLiteAssociationRepo(db)

	cont, crit := seedContainerCriterion(t, ctx, contRepo, critRepo)
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestAssociation(cont.ID, crit.ID, 1)))
	require.NoError(t, repo.Remove(ctx, cont.ID, crit.ID, domain.RoleNone))

	_, err := repo.Get(ctx, cont.ID, crit.ID, domain.RoleNone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
