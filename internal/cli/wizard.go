package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gradetrack/gradetrack/internal/cli/formatter"
	"github.com/gradetrack/gradetrack/internal/domain"
)

// gradetrackHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func gradetrackHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardSelectUser creates a huh form to select a user from the directory.
func wizardSelectUser(ctx context.Context, app *App, result *string) *huh.Form {
	users, err := app.Users.List(ctx)
	if err != nil || len(users) == 0 {
		return nil
	}

	options := make([]huh.Option[string], 0, len(users))
	for _, u := range users {
		label := fmt.Sprintf("%s — %s", u.DisplayName(), u.Email)
		options = append(options, huh.NewOption(label, u.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which User?").
				Options(options...).
				Value(result),
		),
	).WithTheme(gradetrackHuhTheme()).WithShowHelp(false)
}

// wizardSelectCriterion creates a huh form to select a criterion attached to
// a container, or any catalog criterion when containerID is empty.
func wizardSelectCriterion(ctx context.Context, app *App, containerID string, result *string) *huh.Form {
	var criteria []*domain.Criterion

	if containerID != "" {
		assocs, err := app.Containers.ListCriteria(ctx, containerID)
		if err != nil {
			return nil
		}
		seen := make(map[string]bool)
		for _, a := range assocs {
			if seen[a.CriterionID] {
				continue
			}
			seen[a.CriterionID] = true
			if c, err := app.Catalog.GetByID(ctx, a.CriterionID); err == nil {
				criteria = append(criteria, c)
			}
		}
	} else {
		all, err := app.Catalog.List(ctx)
		if err != nil {
			return nil
		}
		criteria = all
	}

	if len(criteria) == 0 {
		return nil
	}

	options := make([]huh.Option[string], 0, len(criteria))
	for _, c := range criteria {
		label := fmt.Sprintf("%s (%s)", c.Name, c.Type)
		options = append(options, huh.NewOption(label, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which Criterion?").
				Options(options...).
				Value(result),
		),
	).WithTheme(gradetrackHuhTheme()).WithShowHelp(false)
}

// wizardSelectContainer creates a huh form to select a container, with a
// leading option for user-global scope.
func wizardSelectContainer(ctx context.Context, app *App, result *string) *huh.Form {
	containers, err := listAllContainers(ctx, app)
	if err != nil {
		return nil
	}

	options := make([]huh.Option[string], 0, len(containers)+1)
	options = append(options, huh.NewOption("(global scope)", ""))
	for _, c := range containers {
		options = append(options, huh.NewOption(c.Title, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which Container?").
				Options(options...).
				Value(result),
		),
	).WithTheme(gradetrackHuhTheme()).WithShowHelp(false)
}

func listAllContainers(ctx context.Context, app *App) ([]*domain.Container, error) {
	roots, err := app.Containers.ListRoots(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Container
	var walk func(c *domain.Container) error
	walk = func(c *domain.Container) error {
		out = append(out, c)
		children, err := app.Containers.ListChildren(ctx, c.ID)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range roots {
		if err := walk(root); err != nil {
			return nil, err
		}
	}
	return out, nil
}
