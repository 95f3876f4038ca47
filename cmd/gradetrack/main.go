package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gradetrack/gradetrack/internal/cli"
	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/repository"
	"github.com/gradetrack/gradetrack/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.gradetrack/gradetrack.db
	dbPath := os.Getenv("GRADETRACK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".gradetrack", "gradetrack.db")
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	criterionRepo := repository.NewSQLiteCriterionRepo(database)
	containerRepo := repository.NewSQLiteContainerRepo(database)
	assocRepo := repository.NewSQLiteAssociationRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	roleRepo := repository.NewSQLiteRoleRepo(database)
	membershipRepo := repository.NewSQLiteMembershipRepo(database)
	progressRepo := repository.NewSQLiteProgressRepo(database)
	textRepo := repository.NewSQLiteTextEntryRepo(database)
	commentRepo := repository.NewSQLiteCommentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case telemetry goes to stderr when GRADETRACK_LOG is set.
	var observers []service.UseCaseObserver
	if os.Getenv("GRADETRACK_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	// Wire services
	resolver := service.NewWeightResolver(assocRepo, membershipRepo)
	reconcileSvc := service.NewReconcileService(userRepo, containerRepo, assocRepo, progressRepo, observers...)

	app := &cli.App{
		Catalog:    service.NewCatalogService(criterionRepo, uow),
		Containers: service.NewContainerService(containerRepo, criterionRepo, assocRepo, roleRepo, uow),
		Users:      service.NewUserService(userRepo),
		Roles:      service.NewRoleService(roleRepo, userRepo, containerRepo, membershipRepo, uow),
		Comments:   service.NewCommentService(commentRepo, userRepo, containerRepo),
		Progress:   service.NewProgressService(userRepo, criterionRepo, containerRepo, progressRepo, textRepo, uow),
		Reconcile:  reconcileSvc,
		Evaluate: service.NewEvaluateService(userRepo, containerRepo, criterionRepo, assocRepo,
			progressRepo, textRepo, resolver, observers...),
		Archive: service.NewArchiveService(criterionRepo, containerRepo, assocRepo, userRepo, roleRepo,
			membershipRepo, progressRepo, textRepo, reconcileSvc, uow, observers...),
	}

	// Detect interactive terminal for the grading wizard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
