package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/gradetrack/gradetrack/internal/domain"
)

// resolveUserID resolves a user identifier which can be an email address
// or a UUID string.
func resolveUserID(ctx context.Context, app *App, input string) (string, error) {
	if strings.Contains(input, "@") {
		u, err := app.Users.GetByEmail(ctx, input)
		if err != nil {
			return "", err
		}
		return u.ID, nil
	}
	return input, nil
}

// resolveCriterionID resolves a criterion identifier by name first, falling
// back to treating the input as a UUID.
func resolveCriterionID(ctx context.Context, app *App, input string) (string, error) {
	c, err := app.Catalog.GetByName(ctx, input)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	return input, nil
}

// resolveRoleID resolves a role identifier by name first, falling back to
// treating the input as a UUID.
func resolveRoleID(ctx context.Context, app *App, input string) (string, error) {
	r, err := app.Roles.GetByName(ctx, input)
	if err == nil {
		return r.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	return input, nil
}
