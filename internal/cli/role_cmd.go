package cli

import (
	"context"
	"fmt"

	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/spf13/cobra"
)

func newRoleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage roles and memberships",
	}

	cmd.AddCommand(
		newRoleAddCmd(app),
		newRoleListCmd(app),
		newRoleRemoveCmd(app),
		newRoleAssignCmd(app),
		newRoleUnassignCmd(app),
		newRoleMembersCmd(app),
	)

	return cmd
}

func newRoleAddCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new role",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &domain.Role{Name: name, Description: description}
			if err := app.Roles.Create(context.Background(), r); err != nil {
				return err
			}
			fmt.Printf("Created role %s (%s)\n", r.Name, r.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Role name")
	cmd.Flags().StringVar(&description, "description", "", "Role description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := app.Roles.List(context.Background())
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				fmt.Println(formatter.Dim("No roles defined."))
				return nil
			}

			headers := []string{"ID", "NAME", "DESCRIPTION"}
			rows := make([][]string, 0, len(roles))
			for _, r := range roles {
				rows = append(rows, []string{
					formatter.TruncID(r.ID),
					r.Name,
					formatter.Dim(r.Description),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newRoleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME|ID",
		Short: "Delete an unused role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveRoleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Roles.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed role %s\n", id)
			return nil
		},
	}
}

func newRoleAssignCmd(app *App) *cobra.Command {
	var user, container string

	cmd := &cobra.Command{
		Use:   "assign NAME|ID",
		Short: "Assign a role to a user within a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			roleID, err := resolveRoleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			userID, err := resolveUserID(ctx, app, user)
			if err != nil {
				return err
			}
			if err := app.Roles.Assign(ctx, userID, container, roleID); err != nil {
				return err
			}
			fmt.Printf("Assigned role %s to user %s in container %s\n", roleID, userID, container)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User email or ID")
	cmd.Flags().StringVar(&container, "container", "", "Container ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("container")

	return cmd
}

func newRoleUnassignCmd(app *App) *cobra.Command {
	var user, container string

	cmd := &cobra.Command{
		Use:   "unassign",
		Short: "Remove a user's role within a container",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, err := resolveUserID(ctx, app, user)
			if err != nil {
				return err
			}
			if err := app.Roles.Unassign(ctx, userID, container); err != nil {
				return err
			}
			fmt.Printf("Unassigned user %s in container %s\n", userID, container)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User email or ID")
	cmd.Flags().StringVar(&container, "container", "", "Container ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("container")

	return cmd
}

func newRoleMembersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "members CONTAINER",
		Short: "List role holders within a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			members, err := app.Roles.ListMembers(ctx, args[0])
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Println(formatter.Dim("No role holders in this container."))
				return nil
			}

			headers := []string{"USER", "ROLE", "SINCE"}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				userName := m.UserID
				if u, err := app.Users.GetByID(ctx, m.UserID); err == nil {
					userName = u.DisplayName()
				}
				roleName := m.RoleID
				if r, err := app.Roles.GetByID(ctx, m.RoleID); err == nil {
					roleName = r.Name
				}
				rows = append(rows, []string{userName, roleName, formatter.HumanDate(m.CreatedAt)})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}
