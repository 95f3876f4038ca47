package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cascadeFixture struct {
	db          *sql.DB
	criteria    *SQLiteCriterionRepo
	containers  *SQLiteContainerRepo
	assocs      *SQLiteAssociationRepo
	users       *SQLiteUserRepo
	roles       *SQLiteRoleRepo
	memberships *SQLiteMembershipRepo
	progress    *SQLiteProgressRepo
	texts       *SQLiteTextEntryRepo
	comments    *SQLiteCommentRepo
}

func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &cascadeFixture{
		db:          database,
		criteria:    NewSQLiteCriterionRepo(database),
		containers:  NewSQLiteContainerRepo(database),
		assocs:      NewSQLiteAssociationRepo(database),
		users:       NewSQLiteUserRepo(database),
		roles:       NewSQLiteRoleRepo(database),
		memberships: NewSQLiteMembershipRepo(database),
		progress:    NewSQLiteProgressRepo(database),
		texts:       NewSQLiteTextEntryRepo(database),
		comments:    NewSQLiteCommentRepo(database),
	}
}

func (f *cascadeFixture) count(t *testing.T, ctx context.Context, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestCascade_DeleteContainerRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	f := newCascadeFixture(t)

	root := testutil.NewTestContainer("Program")
	require.NoError(t, f.containers.Create(ctx, root))
	phase := testutil.NewTestContainer("Phase 1", testutil.WithParent(root.ID))
	require.NoError(t, f.containers.Create(ctx, phase))
	week := testutil.NewTestContainer("Week 3", testutil.WithParent(phase.ID))
	require.NoError(t, f.containers.Create(ctx, week))

	crit := testutil.NewTestCriterion("Demos", domain.CriterionCountable)
	require.NoError(t, f.criteria.Create(ctx, crit))
	require.NoError(t, f.assocs.Upsert(ctx, testutil.NewTestAssociation(week.ID, crit.ID, 2)))

	user := testutil.NewTestUser("hollis")
	require.NoError(t, f.users.Create(ctx, user))
	uc, err := f.progress.GetOrCreate(ctx, user.ID, crit.ID, &week.ID)
	require.NoError(t, err)
	require.NoError(t, f.texts.Insert(ctx, &domain.TextEntry{
		UserCriterionID: uc.ID,
		Value:           "showed the parser demo",
		Active:          true,
		CreatedAt:       time.Now().UTC(),
	}))

	role := testutil.NewTestRole("mentor")
	require.NoError(t, f.roles.Create(ctx, role))
	require.NoError(t, f.memberships.Assign(ctx, testutil.NewTestMembership(user.ID, phase.ID, role.ID)))
	require.NoError(t, f.comments.Create(ctx, testutil.NewTestComment(user.ID, week.ID, "solid week")))

	require.NoError(t, f.containers.Delete(ctx, root.ID))

	assert.Equal(t, 0, f.count(t, ctx, "containers"))
	assert.Equal(t, 0, f.count(t, ctx, "container_criteria"))
	assert.Equal(t, 0, f.count(t, ctx, "user_criteria"))
	assert.Equal(t, 0, f.count(t, ctx, "text_entries"))
	assert.Equal(t, 0, f.count(t, ctx, "user_container_roles"))
	assert.Equal(t, 0, f.count(t, ctx, "user_comments"))

	// Catalog entries and users survive a container delete.
	assert.Equal(t, 1, f.count(t, ctx, "criteria"))
	assert.Equal(t, 1, f.count(t, ctx, "users"))
}

func TestCascade_DeleteContainerKeepsSiblings(t *testing.T) {
	ctx := context.Background()
	f := newCascadeFixture(t)

	root := testutil.NewTestContainer("Program")
	require.NoError(t, f.containers.Create(ctx, root))
	left := testutil.NewTestContainer("Phase 1", testutil.WithParent(root.ID))
	right := testutil.NewTestContainer("Phase 2", testutil.WithParent(root.ID))
	require.NoError(t, f.containers.Create(ctx, left))
	require.NoError(t, f.containers.Create(ctx, right))

	require.NoError(t, f.containers.Delete(ctx, left.ID))

	remaining, err := f.containers.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, right.ID, remaining[0].ID)
}

func TestCascade_DeleteUserRemovesProgressAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newCascadeFixture(t)

	user := testutil.NewTestUser("hollis")
	crit := testutil.NewTestCriterion("Retro Notes", domain.CriterionText)
	require.NoError(t, f.users.Create(ctx, user))
	require.NoError(t, f.criteria.Create(ctx, crit))

	uc, err := f.progress.GetOrCreate(ctx, user.ID, crit.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.texts.Insert(ctx, &domain.TextEntry{
		UserCriterionID: uc.ID,
		Value:           "kept up with reviews",
		Active:          true,
		CreatedAt:       time.Now().UTC(),
	}))

	require.NoError(t, f.users.Delete(ctx, user.ID))

	assert.Equal(t, 0, f.count(t, ctx, "user_criteria"))
	assert.Equal(t, 0, f.count(t, ctx, "text_entries"))
	assert.Equal(t, 1, f.count(t, ctx, "criteria"))
}
