package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/spf13/cobra"
)

func newContainerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Manage the evaluation hierarchy",
	}

	cmd.AddCommand(
		newContainerAddCmd(app),
		newContainerListCmd(app),
		newContainerInspectCmd(app),
		newContainerUpdateCmd(app),
		newContainerMoveCmd(app),
		newContainerCopyCmd(app),
		newContainerRemoveCmd(app),
		newContainerAttachCmd(app),
		newContainerDetachCmd(app),
		newContainerCriteriaCmd(app),
	)

	return cmd
}

func newContainerAddCmd(app *App) *cobra.Command {
	var title, description, parentID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new container",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Container{
				Title:       title,
				Description: description,
			}
			if cmd.Flags().Changed("parent") {
				c.ParentID = &parentID
			}

			if err := app.Containers.Create(context.Background(), c); err != nil {
				return err
			}

			fmt.Printf("Created container %s (%s)\n", c.Title, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Container title")
	cmd.Flags().StringVar(&description, "description", "", "Container description")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent container ID")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newContainerListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the container hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			roots, err := app.Containers.ListRoots(ctx)
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				fmt.Println(formatter.Dim("No containers defined."))
				return nil
			}

			var all []formatter.TreeItem
			for _, root := range roots {
				sub, err := containerTreeItems(ctx, app, root, 0, true)
				if err != nil {
					return err
				}
				all = append(all, sub...)
			}
			fmt.Print(formatter.RenderTree(all))
			return nil
		},
	}
}

func containerTreeItems(ctx context.Context, app *App, c *domain.Container, level int, isLast bool) ([]formatter.TreeItem, error) {
	items := []formatter.TreeItem{{
		Title:  c.Title,
		Level:  level,
		IsLast: isLast,
		Detail: formatter.TruncID(c.ID),
	}}

	children, err := app.Containers.ListChildren(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for i, child := range children {
		sub, err := containerTreeItems(ctx, app, child, level+1, i == len(children)-1)
		if err != nil {
			return nil, err
		}
		items = append(items, sub...)
	}
	return items, nil
}

func newContainerInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show container details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := app.Containers.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s\n\n", formatter.Bold(c.Title)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID     "), formatter.TruncID(c.ID)))
			if c.ParentID != nil {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("PARENT "), formatter.TruncID(*c.ParentID)))
			}
			b.WriteString(fmt.Sprintf("  %s  %d\n", formatter.Dim("ORDER  "), c.OrderIndex))
			if c.Description != "" {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ABOUT  "), c.Description))
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED"), formatter.HumanTimestamp(c.UpdatedAt)))

			assocs, err := app.Containers.ListCriteria(ctx, c.ID)
			if err != nil {
				return err
			}
			if len(assocs) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Criteria"))
				b.WriteString("\n")
				b.WriteString(renderAssociationTable(ctx, app, assocs))
			}

			children, err := app.Containers.ListChildren(ctx, c.ID)
			if err != nil {
				return err
			}
			if len(children) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Children"))
				b.WriteString("\n")
				headers := []string{"ID", "TITLE", "ORDER"}
				rows := make([][]string, 0, len(children))
				for _, child := range children {
					rows = append(rows, []string{
						formatter.TruncID(child.ID),
						child.Title,
						fmt.Sprintf("%d", child.OrderIndex),
					})
				}
				b.WriteString(formatter.RenderTable(headers, rows))
			}

			fmt.Print(formatter.RenderBox("Container", b.String()))
			return nil
		},
	}
}

func renderAssociationTable(ctx context.Context, app *App, assocs []*domain.ContainerCriterion) string {
	headers := []string{"CRITERION", "TYPE", "ROLE", "WEIGHT"}
	rows := make([][]string, 0, len(assocs))
	for _, a := range assocs {
		name := a.CriterionID
		typePill := ""
		if c, err := app.Catalog.GetByID(ctx, a.CriterionID); err == nil {
			name = c.Name
			typePill = formatter.TypePill(c.Type)
		}
		roleName := formatter.Dim("default")
		if a.RoleID != domain.RoleNone {
			roleName = a.RoleID
			if r, err := app.Roles.GetByID(ctx, a.RoleID); err == nil {
				roleName = r.Name
			}
		}
		rows = append(rows, []string{name, typePill, roleName, formatter.WeightBadge(a.Weight)})
	}
	return formatter.RenderTable(headers, rows)
}

func newContainerUpdateCmd(app *App) *cobra.Command {
	var title, description string
	var order int

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := app.Containers.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				c.Title = title
			}
			if cmd.Flags().Changed("description") {
				c.Description = description
			}
			if cmd.Flags().Changed("order") {
				c.OrderIndex = order
			}
			if err := app.Containers.Update(ctx, c); err != nil {
				return err
			}
			fmt.Printf("Updated container %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Container title")
	cmd.Flags().StringVar(&description, "description", "", "Container description")
	cmd.Flags().IntVar(&order, "order", 0, "Order index")

	return cmd
}

func newContainerMoveCmd(app *App) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a container to a new parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parent *string
			if cmd.Flags().Changed("parent") {
				parent = &parentID
			}
			if err := app.Containers.SetParent(context.Background(), args[0], parent); err != nil {
				return err
			}
			if parent == nil {
				fmt.Printf("Moved container %s to the root level\n", args[0])
			} else {
				fmt.Printf("Moved container %s under %s\n", args[0], *parent)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "New parent container ID (omit to move to root)")

	return cmd
}

func newContainerCopyCmd(app *App) *cobra.Command {
	var title, parentID string

	cmd := &cobra.Command{
		Use:   "copy ID",
		Short: "Copy a container subtree with its criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			var parent *string
			if cmd.Flags().Changed("parent") {
				parent = &parentID
			}
			clone, err := app.Containers.Copy(context.Background(), args[0], title, parent)
			if err != nil {
				return err
			}
			fmt.Printf("Copied container into %s (%s)\n", clone.Title, clone.ID)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&title, "title", "", "Title for the copied root")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent for the copy (omit to copy at root level)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newContainerRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a container and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Containers.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed container %s\n", args[0])
			return nil
		},
	}
}

func newContainerAttachCmd(app *App) *cobra.Command {
	var criterion, role string
	var weight float64

	cmd := &cobra.Command{
		Use:   "attach ID",
		Short: "Attach a criterion to a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			criterionID, err := resolveCriterionID(ctx, app, criterion)
			if err != nil {
				return err
			}
			roleID := domain.RoleNone
			if cmd.Flags().Changed("role") {
				roleID, err = resolveRoleID(ctx, app, role)
				if err != nil {
					return err
				}
			}

			a := &domain.ContainerCriterion{
				ContainerID: args[0],
				CriterionID: criterionID,
				RoleID:      roleID,
				Weight:      weight,
			}
			if err := app.Containers.AttachCriterion(ctx, a); err != nil {
				return err
			}
			fmt.Printf("Attached criterion %s to container %s (weight %s)\n",
				criterionID, args[0], formatter.WeightBadge(weight))
			return nil
		},
	}

	cmd.Flags().StringVar(&criterion, "criterion", "", "Criterion name or ID")
	cmd.Flags().StringVar(&role, "role", "", "Role name or ID for a role-scoped weight")
	cmd.Flags().Float64Var(&weight, "weight", 1.0, "Weight for this pairing")
	_ = cmd.MarkFlagRequired("criterion")

	return cmd
}

func newContainerDetachCmd(app *App) *cobra.Command {
	var criterion, role string

	cmd := &cobra.Command{
		Use:   "detach ID",
		Short: "Detach a criterion from a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			criterionID, err := resolveCriterionID(ctx, app, criterion)
			if err != nil {
				return err
			}
			roleID := domain.RoleNone
			if cmd.Flags().Changed("role") {
				roleID, err = resolveRoleID(ctx, app, role)
				if err != nil {
					return err
				}
			}
			if err := app.Containers.DetachCriterion(ctx, args[0], criterionID, roleID); err != nil {
				return err
			}
			fmt.Printf("Detached criterion %s from container %s\n", criterionID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&criterion, "criterion", "", "Criterion name or ID")
	cmd.Flags().StringVar(&role, "role", "", "Role name or ID of the role-scoped entry")
	_ = cmd.MarkFlagRequired("criterion")

	return cmd
}

func newContainerCriteriaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "criteria ID",
		Short: "List criteria attached to a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			assocs, err := app.Containers.ListCriteria(ctx, args[0])
			if err != nil {
				return err
			}
			if len(assocs) == 0 {
				fmt.Println(formatter.Dim("No criteria attached."))
				return nil
			}
			fmt.Print(renderAssociationTable(ctx, app, assocs))
			return nil
		},
	}
}
