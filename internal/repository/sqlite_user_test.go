package repository

import (
	"context"
	"testing"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))

	u := testutil.NewTestUser("tamsin")
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))

	u := testutil.NewTestUser("tamsin")
	require.NoError(t, repo.Create(ctx, u))

	dup := testutil.NewTestUser("tamsin")
	dup.Email = u.Email
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestUserRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))

	u := testutil.NewTestUser("tamsin")
	require.NoError(t, repo.Create(ctx, u))

	u.LastName = "Greer"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Greer", got.LastName)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
