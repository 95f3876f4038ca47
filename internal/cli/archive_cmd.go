package cli

import (
	"context"
	"fmt"

	"github.com/gradetrack/gradetrack/internal/importer"
	"github.com/spf13/cobra"
)

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Export and import the whole database as JSON",
	}

	cmd.AddCommand(
		newArchiveExportCmd(app),
		newArchiveImportCmd(app),
	)

	return cmd
}

func newArchiveExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write a JSON archive of all data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := app.Archive.Export(context.Background())
			if err != nil {
				return err
			}
			if err := importer.SaveArchive(args[0], archive); err != nil {
				return err
			}
			fmt.Printf("Exported %d criteria, %d containers, %d users, %d records to %s\n",
				len(archive.Criteria), len(archive.Containers), len(archive.Users), len(archive.Records), args[0])
			return nil
		},
	}
}

func newArchiveImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a JSON archive into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Archive.ImportArchive(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d criteria, %d containers, %d associations, %d roles, %d users, %d records\n",
				result.Criteria, result.Containers, result.Associations, result.Roles, result.Users, result.Records)
			fmt.Printf("Reconciliation created %d records\n", result.Reconciled)
			return nil
		},
	}
}
