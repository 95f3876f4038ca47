package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newReconcileCmd(app *App) *cobra.Command {
	var container string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Create missing progress records for attached criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if cmd.Flags().Changed("container") {
				res, err := app.Reconcile.EnsureForContainer(ctx, container)
				if err != nil {
					return err
				}
				fmt.Printf("Reconciled %d users, created %d records\n", res.Users, res.Created)
				return nil
			}

			res, err := app.Reconcile.EnsureAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Reconciled %d users, created %d records\n", res.Users, res.Created)
			return nil
		},
	}

	cmd.Flags().StringVar(&container, "container", "", "Scope reconciliation to one container")

	return cmd
}
