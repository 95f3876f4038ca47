package service

import (
	"context"
	"errors"
	"time"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type evaluateService struct {
	users      repository.UserRepo
	containers repository.ContainerRepo
	criteria   repository.CriterionRepo
	assocs     repository.AssociationRepo
	progress   repository.ProgressRepo
	texts      repository.TextEntryRepo
	resolver   WeightResolver
	observer   UseCaseObserver
}

func NewEvaluateService(
	users repository.UserRepo,
	containers repository.ContainerRepo,
	criteria repository.CriterionRepo,
	assocs repository.AssociationRepo,
	progress repository.ProgressRepo,
	texts repository.TextEntryRepo,
	resolver WeightResolver,
	observers ...UseCaseObserver,
) EvaluateService {
	return &evaluateService{
		users:      users,
		containers: containers,
		criteria:   criteria,
		assocs:     assocs,
		progress:   progress,
		texts:      texts,
		resolver:   resolver,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *evaluateService) Evaluate(ctx context.Context, userID string, rootID *string) (reports []*ContainerReport, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "evaluate",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user": userID},
		})
	}()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var roots []*domain.Container
	if rootID != nil {
		root, err := s.containers.GetByID(ctx, *rootID)
		if err != nil {
			return nil, err
		}
		roots = []*domain.Container{root}
	} else {
		roots, err = s.containers.ListRoots(ctx)
		if err != nil {
			return nil, err
		}
	}

	// One memo per pass keeps repeated (container, criterion) resolutions
	// from re-querying the weight entries.
	resolver := newMemoWeightResolver(s.resolver)

	reports = make([]*ContainerReport, 0, len(roots))
	for _, root := range roots {
		report, err := s.evaluateContainer(ctx, userID, root, resolver)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *evaluateService) evaluateContainer(ctx context.Context, userID string, c *domain.Container, resolver WeightResolver) (*ContainerReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	criterionIDs, err := s.distinctCriteria(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	report := &ContainerReport{Container: c}
	for _, criterionID := range criterionIDs {
		line, err := s.evaluateCriterion(ctx, userID, c.ID, criterionID, resolver)
		if err != nil {
			return nil, err
		}
		report.Criteria = append(report.Criteria, line)
	}

	children, err := s.containers.ListChildren(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		childReport, err := s.evaluateContainer(ctx, userID, child, resolver)
		if err != nil {
			return nil, err
		}
		report.Children = append(report.Children, childReport)
	}
	return report, nil
}

func (s *evaluateService) evaluateCriterion(ctx context.Context, userID, containerID, criterionID string, resolver WeightResolver) (CriterionReport, error) {
	crit, err := s.criteria.GetByID(ctx, criterionID)
	if err != nil {
		return CriterionReport{}, err
	}
	weight, err := resolver.EffectiveWeight(ctx, userID, containerID, criterionID)
	if err != nil {
		return CriterionReport{}, err
	}

	line := CriterionReport{Criterion: crit, Weight: weight}

	record, err := s.progress.Get(ctx, userID, criterionID, &containerID)
	if errors.Is(err, domain.ErrNotFound) {
		return line, nil
	}
	if err != nil {
		return CriterionReport{}, err
	}

	line.Started = true
	line.Count = record.CountValue
	line.Fulfilled = record.IsFulfilled
	line.Reviewed = record.Reviewed

	if crit.Type == domain.CriterionText {
		active, err := s.texts.Active(ctx, record.ID)
		if err == nil {
			line.Text = active.Value
		} else if !errors.Is(err, domain.ErrNotFound) {
			return CriterionReport{}, err
		}
	}
	return line, nil
}

func (s *evaluateService) distinctCriteria(ctx context.Context, containerID string) ([]string, error) {
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
