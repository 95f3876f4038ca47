package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/spf13/cobra"
)

func newCriterionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "criterion",
		Short: "Manage the criteria catalog",
	}

	cmd.AddCommand(
		newCriterionAddCmd(app),
		newCriterionListCmd(app),
		newCriterionInspectCmd(app),
		newCriterionRemoveCmd(app),
	)

	return cmd
}

func newCriterionAddCmd(app *App) *cobra.Command {
	var name, typ string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctype, err := domain.ParseCriterionType(typ)
			if err != nil {
				return err
			}
			c := &domain.Criterion{Name: name, Type: ctype}
			if err := app.Catalog.Create(context.Background(), c); err != nil {
				return err
			}
			fmt.Printf("Created criterion %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Criterion name")
	cmd.Flags().StringVar(&typ, "type", "", "Criterion type (countable|boolean|text)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newCriterionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := app.Catalog.List(context.Background())
			if err != nil {
				return err
			}
			if len(criteria) == 0 {
				fmt.Println(formatter.Dim("No criteria defined."))
				return nil
			}

			headers := []string{"ID", "NAME", "TYPE"}
			rows := make([][]string, 0, len(criteria))
			for _, c := range criteria {
				rows = append(rows, []string{
					formatter.TruncID(c.ID),
					c.Name,
					formatter.TypePill(c.Type),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newCriterionInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect NAME|ID",
		Short: "Show criterion details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCriterionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Catalog.GetByID(ctx, id)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(c.Name), formatter.TypePill(c.Type)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID     "), formatter.TruncID(c.ID)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("CREATED"), formatter.HumanDate(c.CreatedAt)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED"), formatter.HumanTimestamp(c.UpdatedAt)))

			fmt.Print(formatter.RenderBox("Criterion", b.String()))
			return nil
		},
	}
}

func newCriterionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME|ID",
		Short: "Delete an unused criterion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCriterionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed criterion %s\n", id)
			return nil
		},
	}
}
