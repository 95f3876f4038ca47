package cli

import (
	"github.com/gradetrack/gradetrack/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Catalog    service.CatalogService
	Containers service.ContainerService
	Users      service.UserService
	Roles      service.RoleService
	Comments   service.CommentService
	Progress   service.ProgressService
	Reconcile  service.ReconcileService
	Evaluate   service.EvaluateService
	Archive    service.ArchiveService

	// IsInteractive reports whether stdin is a terminal; interactive
	// grading forms are only offered when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "gradetrack" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "gradetrack",
		Short: "Criteria catalog, container hierarchy, and grading tracker",
	}

	root.AddCommand(
		newCriterionCmd(app),
		newContainerCmd(app),
		newUserCmd(app),
		newRoleCmd(app),
		newCommentCmd(app),
		newGradeCmd(app),
		newReconcileCmd(app),
		newEvaluateCmd(app),
		newArchiveCmd(app),
	)

	return root
}
