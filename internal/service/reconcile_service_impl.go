package service

import (
	"context"
	"errors"
	"time"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type reconcileService struct {
	users      repository.UserRepo
	containers repository.ContainerRepo
	assocs     repository.AssociationRepo
	progress   repository.ProgressRepo
	observer   UseCaseObserver
}

func NewReconcileService(
	users repository.UserRepo,
	containers repository.ContainerRepo,
	assocs repository.AssociationRepo,
	progress repository.ProgressRepo,
	observers ...UseCaseObserver,
) ReconcileService {
	return &reconcileService{
		users:      users,
		containers: containers,
		assocs:     assocs,
		progress:   progress,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// EnsureForContainer backfills the missing progress records of one
// container: every user gets a record for every criterion attached to it.
// Existing records are left untouched, so the pass is idempotent and safe
// to re-run after an interruption.
func (s *reconcileService) EnsureForContainer(ctx context.Context, containerID string) (result *ReconcileResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"container": containerID}
		if result != nil {
			fields["created"] = result.Created
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "reconcile-container",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if _, err := s.containers.GetByID(ctx, containerID); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	criterionIDs, err := s.containerCriterionIDs(ctx, containerID)
	if err != nil {
		return nil, err
	}

	result = &ReconcileResult{Users: len(users)}
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		created, err := s.ensureUser(ctx, user.ID, containerID, criterionIDs)
		if err != nil {
			return nil, err
		}
		result.Created += created
	}
	return result, nil
}

// EnsureAll runs the container pass over the whole forest.
func (s *reconcileService) EnsureAll(ctx context.Context) (*ReconcileResult, error) {
	containers, err := s.containers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	total := &ReconcileResult{Users: len(users)}
	for _, c := range containers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.EnsureForContainer(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		total.Created += r.Created
	}
	return total, nil
}

// containerCriterionIDs returns the distinct criteria attached to a
// container. Role-scoped entries of one criterion collapse to a single id;
// progress identity never includes the role.
func (s *reconcileService) containerCriterionIDs(ctx context.Context, containerID string) ([]string, error) {
	entries, err := s.assocs.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(entries))
	var ids []string
	for _, entry := range entries {
		if seen[entry.CriterionID] {
			continue
		}
		seen[entry.CriterionID] = true
		ids = append(ids, entry.CriterionID)
	}
	return ids, nil
}

func (s *reconcileService) ensureUser(ctx context.Context, userID, containerID string, criterionIDs []string) (int, error) {
	created := 0
	for _, criterionID := range criterionIDs {
		_, err := s.progress.Get(ctx, userID, criterionID, &containerID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}
		if _, err := s.progress.GetOrCreate(ctx, userID, criterionID, &containerID); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
