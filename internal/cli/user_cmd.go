package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage graded users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserInspectCmd(app),
		newUserUpdateCmd(app),
		newUserRemoveCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var email, first, last string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{
				Email:     email,
				FirstName: first,
				LastName:  last,
			}
			if err := app.Users.Create(context.Background(), u); err != nil {
				return err
			}
			fmt.Printf("Created user %s (%s)\n", u.DisplayName(), u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(context.Background())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println(formatter.Dim("No users registered."))
				return nil
			}

			headers := []string{"ID", "NAME", "EMAIL"}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{
					formatter.TruncID(u.ID),
					u.DisplayName(),
					formatter.Dim(u.Email),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newUserInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect EMAIL|ID",
		Short: "Show user details and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveUserID(ctx, app, args[0])
			if err != nil {
				return err
			}
			u, err := app.Users.GetByID(ctx, id)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(u.DisplayName()), formatter.Dim(u.Email)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID     "), formatter.TruncID(u.ID)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("CREATED"), formatter.HumanDate(u.CreatedAt)))

			records, err := app.Progress.ListByUser(ctx, u.ID)
			if err != nil {
				return err
			}
			if len(records) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Progress"))
				b.WriteString("\n")
				headers := []string{"CRITERION", "SCOPE", "COUNT", "FULFILLED", "REVIEWED"}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					name := rec.CriterionID
					if c, err := app.Catalog.GetByID(ctx, rec.CriterionID); err == nil {
						name = c.Name
					}
					scope := formatter.Dim("global")
					if rec.ContainerID != nil {
						scope = formatter.TruncID(*rec.ContainerID)
						if container, err := app.Containers.GetByID(ctx, *rec.ContainerID); err == nil {
							scope = container.Title
						}
					}
					rows = append(rows, []string{
						name,
						scope,
						fmt.Sprintf("%d", rec.CountValue),
						formatter.FulfilledPill(rec.IsFulfilled),
						formatter.ReviewedPill(rec.Reviewed),
					})
				}
				b.WriteString(formatter.RenderTable(headers, rows))
			}

			fmt.Print(formatter.RenderBox("User", b.String()))
			return nil
		},
	}
}

func newUserUpdateCmd(app *App) *cobra.Command {
	var email, first, last string

	cmd := &cobra.Command{
		Use:   "update EMAIL|ID",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveUserID(ctx, app, args[0])
			if err != nil {
				return err
			}
			u, err := app.Users.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("email") {
				u.Email = email
			}
			if cmd.Flags().Changed("first") {
				u.FirstName = first
			}
			if cmd.Flags().Changed("last") {
				u.LastName = last
			}
			if err := app.Users.Update(ctx, u); err != nil {
				return err
			}
			fmt.Printf("Updated user %s\n", u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")

	return cmd
}

func newUserRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove EMAIL|ID",
		Short: "Delete a user and all their progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveUserID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Users.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed user %s\n", id)
			return nil
		},
	}
}
