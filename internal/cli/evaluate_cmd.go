package cli

import (
	"context"
	"fmt"

	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newEvaluateCmd(app *App) *cobra.Command {
	var user, root string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Show a user's weighted evaluation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, err := resolveUserID(ctx, app, user)
			if err != nil {
				return err
			}

			var rootID *string
			if cmd.Flags().Changed("root") {
				rootID = &root
			}

			reports, err := app.Evaluate.Evaluate(ctx, userID, rootID)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Println(formatter.Dim("Nothing to evaluate."))
				return nil
			}

			u, err := app.Users.GetByID(ctx, userID)
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header("Evaluation for " + u.DisplayName()))
			fmt.Print(formatter.RenderReport(reports))
			fmt.Printf("\n%s %s\n", formatter.Dim("overall"),
				formatter.RenderProgress(formatter.ReportCompletion(reports), 20))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User email or ID")
	cmd.Flags().StringVar(&root, "root", "", "Container ID to scope the report to")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
