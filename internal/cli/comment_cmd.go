package cli

import (
	"context"
	"fmt"

	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/spf13/cobra"
)

func newCommentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage free-text notes on users",
	}

	cmd.AddCommand(
		newCommentAddCmd(app),
		newCommentListCmd(app),
		newCommentUpdateCmd(app),
		newCommentRemoveCmd(app),
	)

	return cmd
}

func newCommentAddCmd(app *App) *cobra.Command {
	var user, container, body string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note about a user in a container",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, err := resolveUserID(ctx, app, user)
			if err != nil {
				return err
			}
			c := &domain.Comment{
				UserID:      userID,
				ContainerID: container,
				Body:        body,
			}
			if err := app.Comments.Add(ctx, c); err != nil {
				return err
			}
			fmt.Printf("Added comment %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User email or ID")
	cmd.Flags().StringVar(&container, "container", "", "Container ID")
	cmd.Flags().StringVar(&body, "body", "", "Comment text")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("container")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newCommentListCmd(app *App) *cobra.Command {
	var user, container string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes about a user in a container",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, err := resolveUserID(ctx, app, user)
			if err != nil {
				return err
			}
			comments, err := app.Comments.ListFor(ctx, userID, container)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Println(formatter.Dim("No comments."))
				return nil
			}
			for _, c := range comments {
				fmt.Printf("%s  %s\n  %s\n",
					formatter.TruncID(c.ID),
					formatter.Dim(formatter.HumanTimestamp(c.CreatedAt)),
					c.Body)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User email or ID")
	cmd.Flags().StringVar(&container, "container", "", "Container ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("container")

	return cmd
}

func newCommentUpdateCmd(app *App) *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rewrite a comment's text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Comment{ID: args[0], Body: body}
			if err := app.Comments.Update(context.Background(), c); err != nil {
				return err
			}
			fmt.Printf("Updated comment %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "New comment text")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newCommentRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Comments.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed comment %s\n", args[0])
			return nil
		},
	}
}
