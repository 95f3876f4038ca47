package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newGradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Record and review user progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return cmd.Help()
			}
			return runGradeWizard(context.Background(), app)
		},
	}

	cmd.AddCommand(
		newGradeIncrCmd(app),
		newGradeDecrCmd(app),
		newGradeSetBoolCmd(app),
		newGradeSetTextCmd(app),
		newGradeReviewCmd(app),
		newGradeHistoryCmd(app),
	)

	return cmd
}

// bindScopeFlags binds the flag trio shared by all grading subcommands.
func bindScopeFlags(fs *pflag.FlagSet, user, criterion, container *string) {
	fs.StringVar(user, "user", "", "User email or ID")
	fs.StringVar(criterion, "criterion", "", "Criterion name or ID")
	fs.StringVar(container, "container", "", "Container ID (omit for global scope)")
}

func gradeScopeFlags(cmd *cobra.Command, user, criterion, container *string) {
	bindScopeFlags(cmd.Flags(), user, criterion, container)
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("criterion")
}

// resolveGradeScope resolves the common user/criterion/container flag trio.
func resolveGradeScope(ctx context.Context, app *App, cmd *cobra.Command, user, criterion, container string) (userID, criterionID string, containerID *string, err error) {
	userID, err = resolveUserID(ctx, app, user)
	if err != nil {
		return "", "", nil, err
	}
	criterionID, err = resolveCriterionID(ctx, app, criterion)
	if err != nil {
		return "", "", nil, err
	}
	if cmd.Flags().Changed("container") {
		containerID = &container
	}
	return userID, criterionID, containerID, nil
}

func newGradeIncrCmd(app *App) *cobra.Command {
	var user, criterion, container string

	cmd := &cobra.Command{
		Use:   "incr",
		Short: "Increment a countable criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, criterionID, containerID, err := resolveGradeScope(ctx, app, cmd, user, criterion, container)
			if err != nil {
				return err
			}
			rec, err := app.Progress.Increment(ctx, userID, criterionID, containerID)
			if err != nil {
				return err
			}
			fmt.Printf("Count is now %d\n", rec.CountValue)
			return nil
		},
	}

	gradeScopeFlags(cmd, &user, &criterion, &container)
	return cmd
}

func newGradeDecrCmd(app *App) *cobra.Command {
	var user, criterion, container string

	cmd := &cobra.Command{
		Use:   "decr",
		Short: "Decrement a countable criterion (floors at zero)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, criterionID, containerID, err := resolveGradeScope(ctx, app, cmd, user, criterion, container)
			if err != nil {
				return err
			}
			rec, err := app.Progress.Decrement(ctx, userID, criterionID, containerID)
			if err != nil {
				return err
			}
			fmt.Printf("Count is now %d\n", rec.CountValue)
			return nil
		},
	}

	gradeScopeFlags(cmd, &user, &criterion, &container)
	return cmd
}

func newGradeSetBoolCmd(app *App) *cobra.Command {
	var user, criterion, container string
	var fulfilled bool

	cmd := &cobra.Command{
		Use:   "set-bool",
		Short: "Set a boolean criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, criterionID, containerID, err := resolveGradeScope(ctx, app, cmd, user, criterion, container)
			if err != nil {
				return err
			}
			rec, err := app.Progress.SetBoolean(ctx, userID, criterionID, containerID, fulfilled)
			if err != nil {
				return err
			}
			fmt.Printf("Fulfilled: %s\n", formatter.FulfilledPill(rec.IsFulfilled))
			return nil
		},
	}

	gradeScopeFlags(cmd, &user, &criterion, &container)
	cmd.Flags().BoolVar(&fulfilled, "fulfilled", true, "Fulfilled state")
	return cmd
}

func newGradeSetTextCmd(app *App) *cobra.Command {
	var user, criterion, container, value string

	cmd := &cobra.Command{
		Use:   "set-text",
		Short: "Set the active text entry of a text criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, criterionID, containerID, err := resolveGradeScope(ctx, app, cmd, user, criterion, container)
			if err != nil {
				return err
			}
			if _, err := app.Progress.SetText(ctx, userID, criterionID, containerID, value); err != nil {
				return err
			}
			fmt.Println("Text entry recorded")
			return nil
		},
	}

	gradeScopeFlags(cmd, &user, &criterion, &container)
	cmd.Flags().StringVar(&value, "value", "", "Text value")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newGradeReviewCmd(app *App) *cobra.Command {
	var user, criterion, container string
	var unreview bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Mark a progress record as reviewed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, criterionID, containerID, err := resolveGradeScope(ctx, app, cmd, user, criterion, container)
			if err != nil {
				return err
			}
			rec, err := app.Progress.Record(ctx, userID, criterionID, containerID)
			if err != nil {
				return err
			}
			if err := app.Progress.SetReviewed(ctx, rec.ID, !unreview); err != nil {
				return err
			}
			fmt.Printf("Record %s: %s\n", formatter.TruncID(rec.ID), formatter.ReviewedPill(!unreview))
			return nil
		},
	}

	gradeScopeFlags(cmd, &user, &criterion, &container)
	cmd.Flags().BoolVar(&unreview, "undo", false, "Clear the reviewed flag instead")
	return cmd
}

func newGradeHistoryCmd(app *App) *cobra.Command {
	var user, criterion, container string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past text entries of a text criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, criterionID, containerID, err := resolveGradeScope(ctx, app, cmd, user, criterion, container)
			if err != nil {
				return err
			}
			rec, err := app.Progress.Record(ctx, userID, criterionID, containerID)
			if err != nil {
				return err
			}

			active, err := app.Progress.ActiveText(ctx, rec.ID)
			if err == nil {
				fmt.Printf("%s %s  %s\n", formatter.StyleGreen.Render("●"), active.Value,
					formatter.Dim(formatter.HumanTimestamp(active.CreatedAt)))
			}

			history, err := app.Progress.TextHistory(ctx, rec.ID, limit)
			if err != nil {
				return err
			}
			for _, entry := range history {
				fmt.Printf("%s %s  %s\n", formatter.Dim("○"), formatter.Dim(entry.Value),
					formatter.Dim(formatter.HumanTimestamp(entry.CreatedAt)))
			}
			return nil
		},
	}

	gradeScopeFlags(cmd, &user, &criterion, &container)
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of past entries to show")
	return cmd
}

// runGradeWizard walks through user, container, criterion, and value with
// interactive forms, then applies the matching progress mutation.
func runGradeWizard(ctx context.Context, app *App) error {
	var userID string
	form := wizardSelectUser(ctx, app, &userID)
	if form == nil {
		return fmt.Errorf("no users to grade")
	}
	if err := form.Run(); err != nil {
		return err
	}

	var containerID string
	if form := wizardSelectContainer(ctx, app, &containerID); form != nil {
		if err := form.Run(); err != nil {
			return err
		}
	}

	var criterionID string
	form = wizardSelectCriterion(ctx, app, containerID, &criterionID)
	if form == nil {
		return fmt.Errorf("no criteria to grade")
	}
	if err := form.Run(); err != nil {
		return err
	}

	criterion, err := app.Catalog.GetByID(ctx, criterionID)
	if err != nil {
		return err
	}

	var scope *string
	if containerID != "" {
		scope = &containerID
	}

	switch criterion.Type {
	case domain.CriterionCountable:
		return gradeWizardCount(ctx, app, userID, criterionID, scope)
	case domain.CriterionBoolean:
		return gradeWizardBool(ctx, app, userID, criterionID, scope)
	case domain.CriterionText:
		return gradeWizardText(ctx, app, userID, criterionID, scope)
	}
	return fmt.Errorf("criterion type %q: %w", criterion.Type, domain.ErrInvalidValue)
}

func gradeWizardCount(ctx context.Context, app *App, userID, criterionID string, scope *string) error {
	rec, err := app.Progress.Record(ctx, userID, criterionID, scope)
	if err != nil {
		return err
	}

	var deltaStr string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Count is %d; add how many?", rec.CountValue)).
				Placeholder("1").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("not a whole number")
					}
					return nil
				}).
				Value(&deltaStr),
		),
	).WithTheme(gradetrackHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return err
	}

	delta := 1
	if deltaStr != "" {
		delta, _ = strconv.Atoi(deltaStr)
	}

	for i := 0; i < delta; i++ {
		if rec, err = app.Progress.Increment(ctx, userID, criterionID, scope); err != nil {
			return err
		}
	}
	for i := 0; i > delta; i-- {
		if rec, err = app.Progress.Decrement(ctx, userID, criterionID, scope); err != nil {
			return err
		}
	}

	fmt.Printf("Count is now %d\n", rec.CountValue)
	return nil
}

func gradeWizardBool(ctx context.Context, app *App, userID, criterionID string, scope *string) error {
	var fulfilled bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Fulfilled?").
				Value(&fulfilled),
		),
	).WithTheme(gradetrackHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return err
	}

	rec, err := app.Progress.SetBoolean(ctx, userID, criterionID, scope, fulfilled)
	if err != nil {
		return err
	}
	fmt.Printf("Fulfilled: %s\n", formatter.FulfilledPill(rec.IsFulfilled))
	return nil
}

func gradeWizardText(ctx context.Context, app *App, userID, criterionID string, scope *string) error {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Text entry").
				Value(&value),
		),
	).WithTheme(gradetrackHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return err
	}

	if _, err := app.Progress.SetText(ctx, userID, criterionID, scope, value); err != nil {
		return err
	}
	fmt.Println("Text entry recorded")
	return nil
}
