package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
	"github.com/gradetrack/gradetrack/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every repo and service over one test database.
type testEnv struct {
	db  *sql.DB
	uow db.UnitOfWork

	criteriaRepo    *repository.SQLiteCriterionRepo
	containerRepo   *repository.SQLiteContainerRepo
	assocRepo       *repository.SQLiteAssociationRepo
	userRepo        *repository.SQLiteUserRepo
	roleRepo        *repository.SQLiteRoleRepo
	membershipRepo  *repository.SQLiteMembershipRepo
	progressRepo    *repository.SQLiteProgressRepo
	textRepo        *repository.SQLiteTextEntryRepo
	commentRepo     *repository.SQLiteCommentRepo

	catalog    CatalogService
	containers ContainerService
	users      UserService
	roles      RoleService
	comments   CommentService
	progress   ProgressService
	resolver   WeightResolver
	reconcile  ReconcileService
	evaluate   EvaluateService
	archive    ArchiveService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return buildEnv(database, testutil.NewTestUoW(database))
}

func buildEnv(database *sql.DB, uow db.UnitOfWork) *testEnv {
	env := &testEnv{
		db:             database,
		uow:            uow,
		criteriaRepo:   repository.NewSQLiteCriterionRepo(database),
		containerRepo:  repository.NewSQLiteContainerRepo(database),
		assocRepo:      repository.NewSQLiteAssociationRepo(database),
		userRepo:       repository.NewSQLiteUserRepo(database),
		roleRepo:       repository.NewSQLiteRoleRepo(database),
		membershipRepo: repository.NewSQLiteMembershipRepo(database),
		progressRepo:   repository.NewSQLiteProgressRepo(database),
		textRepo:       repository.NewSQLiteTextEntryRepo(database),
		commentRepo:    repository.NewSQLiteCommentRepo(database),
	}
	env.catalog = NewCatalogService(env.criteriaRepo, env.uow)
	env.containers = NewContainerService(env.containerRepo, env.criteriaRepo, env.assocRepo, env.roleRepo, env.uow)
	env.users = NewUserService(env.userRepo)
	env.roles = NewRoleService(env.roleRepo, env.userRepo, env.containerRepo, env.membershipRepo, env.uow)
	env.comments = NewCommentService(env.commentRepo, env.userRepo, env.containerRepo)
	env.progress = NewProgressService(env.userRepo, env.criteriaRepo, env.containerRepo, env.progressRepo, env.textRepo, env.uow)
	env.resolver = NewWeightResolver(env.assocRepo, env.membershipRepo)
	env.reconcile = NewReconcileService(env.userRepo, env.containerRepo, env.assocRepo, env.progressRepo)
	env.evaluate = NewEvaluateService(env.userRepo, env.containerRepo, env.criteriaRepo, env.assocRepo, env.progressRepo, env.textRepo, env.resolver)
	env.archive = NewArchiveService(env.criteriaRepo, env.containerRepo, env.assocRepo, env.userRepo, env.roleRepo, env.membershipRepo, env.progressRepo, env.textRepo, env.reconcile, env.uow)
	return env
}

func (e *testEnv) mustCriterion(t *testing.T, ctx context.Context, name string, typ domain.CriterionType) *domain.Criterion {
	t.Helper()
	c := &domain.Criterion{Name: name, Type: typ}
	require.NoError(t, e.catalog.Create(ctx, c))
	return c
}

func (e *testEnv) mustContainer(t *testing.T, ctx context.Context, title string, parentID *string) *domain.Container {
	t.Helper()
	c := &domain.Container{Title: title, ParentID: parentID}
	require.NoError(t, e.containers.Create(ctx, c))
	return c
}

func (e *testEnv) mustUser(t *testing.T, ctx context.Context, name string) *domain.User {
	t.Helper()
	u := testutil.NewTestUser(name)
	u.ID = ""
	require.NoError(t, e.users.Create(ctx, u))
	return u
}

func (e *testEnv) mustRole(t *testing.T, ctx context.Context, name string) *domain.Role {
	t.Helper()
	r := &domain.Role{Name: name}
	require.NoError(t, e.roles.Create(ctx, r))
	return r
}

func (e *testEnv) mustAttach(t *testing.T, ctx context.Context, containerID, criterionID, roleID string, weight float64) {
	t.Helper()
	require.NoError(t, e.containers.AttachCriterion(ctx, &domain.ContainerCriterion{
		ContainerID: containerID,
		CriterionID: criterionID,
		RoleID:      roleID,
		Weight:      weight,
	}))
}
