package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type progressService struct {
	users      repository.UserRepo
	criteria   repository.CriterionRepo
	containers repository.ContainerRepo
	progress   repository.ProgressRepo
	texts      repository.TextEntryRepo
	uow        db.UnitOfWork
}

func NewProgressService(
	users repository.UserRepo,
	criteria repository.CriterionRepo,
	containers repository.ContainerRepo,
	progress repository.ProgressRepo,
	texts repository.TextEntryRepo,
	uow db.UnitOfWork,
) ProgressService {
	return &progressService{
		users:      users,
		criteria:   criteria,
		containers: containers,
		progress:   progress,
		texts:      texts,
		uow:        uow,
	}
}

// checkKey verifies the referenced user, criterion and container exist and
// returns the criterion for type checks.
func (s *progressService) checkKey(ctx context.Context, userID, criterionID string, containerID *string) (*domain.Criterion, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	crit, err := s.criteria.GetByID(ctx, criterionID)
	if err != nil {
		return nil, err
	}
	if containerID != nil {
		if _, err := s.containers.GetByID(ctx, *containerID); err != nil {
			return nil, err
		}
	}
	return crit, nil
}

func requireType(crit *domain.Criterion, want domain.CriterionType, op string) error {
	if crit.Type != want {
		return fmt.Errorf("%s on %s criterion %q: %w", op, crit.Type, crit.Name, domain.ErrTypeMismatch)
	}
	return nil
}

func (s *progressService) Record(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error) {
	if _, err := s.checkKey(ctx, userID, criterionID, containerID); err != nil {
		return nil, err
	}
	return s.progress.GetOrCreate(ctx, userID, criterionID, containerID)
}

func (s *progressService) Increment(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error) {
	return s.addCount(ctx, userID, criterionID, containerID, 1, "increment")
}

func (s *progressService) Decrement(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error) {
	return s.addCount(ctx, userID, criterionID, containerID, -1, "decrement")
}

func (s *progressService) addCount(ctx context.Context, userID, criterionID string, containerID *string, delta int, op string) (*domain.UserCriterion, error) {
	crit, err := s.checkKey(ctx, userID, criterionID, containerID)
	if err != nil {
		return nil, err
	}
	if err := requireType(crit, domain.CriterionCountable, op); err != nil {
		return nil, err
	}

	var record *domain.UserCriterion
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProgress := repository.NewSQLiteProgressRepo(tx)
		uc, err := txProgress.GetOrCreate(ctx, userID, criterionID, containerID)
		if err != nil {
			return err
		}
		if err := txProgress.AddCount(ctx, uc.ID, delta); err != nil {
			return err
		}
		record, err = txProgress.GetByID(ctx, uc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *progressService) SetBoolean(ctx context.Context, userID, criterionID string, containerID *string, fulfilled bool) (*domain.UserCriterion, error) {
	crit, err := s.checkKey(ctx, userID, criterionID, containerID)
	if err != nil {
		return nil, err
	}
	if err := requireType(crit, domain.CriterionBoolean, "set-boolean"); err != nil {
		return nil, err
	}

	var record *domain.UserCriterion
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProgress := repository.NewSQLiteProgressRepo(tx)
		uc, err := txProgress.GetOrCreate(ctx, userID, criterionID, containerID)
		if err != nil {
			return err
		}
		if err := txProgress.SetFulfilled(ctx, uc.ID, fulfilled); err != nil {
			return err
		}
		record, err = txProgress.GetByID(ctx, uc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SetText records a new text value: any currently active entry is retired
// and the new value inserted as the single active one, atomically.
func (s *progressService) SetText(ctx context.Context, userID, criterionID string, containerID *string, value string) (*domain.UserCriterion, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("text value is empty: %w", domain.ErrInvalidValue)
	}
	crit, err := s.checkKey(ctx, userID, criterionID, containerID)
	if err != nil {
		return nil, err
	}
	if err := requireType(crit, domain.CriterionText, "set-text"); err != nil {
		return nil, err
	}

	var record *domain.UserCriterion
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProgress := repository.NewSQLiteProgressRepo(tx)
		txTexts := repository.NewSQLiteTextEntryRepo(tx)

		uc, err := txProgress.GetOrCreate(ctx, userID, criterionID, containerID)
		if err != nil {
			return err
		}
		if err := txTexts.DeactivateAll(ctx, uc.ID); err != nil {
			return err
		}
		if err := txTexts.Insert(ctx, &domain.TextEntry{
			UserCriterionID: uc.ID,
			Value:           value,
			Active:          true,
			CreatedAt:       time.Now().UTC(),
		}); err != nil {
			return err
		}
		record = uc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *progressService) SetReviewed(ctx context.Context, recordID string, reviewed bool) error {
	return s.progress.SetReviewed(ctx, recordID, reviewed)
}

func (s *progressService) ActiveText(ctx context.Context, recordID string) (*domain.TextEntry, error) {
	return s.texts.Active(ctx, recordID)
}

func (s *progressService) TextHistory(ctx context.Context, recordID string, limit int) ([]*domain.TextEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("history limit %d: %w", limit, domain.ErrInvalidValue)
	}
	return s.texts.RecentInactive(ctx, recordID, limit)
}

func (s *progressService) ListByContainer(ctx context.Context, containerID string) ([]*domain.UserCriterion, error) {
	return s.progress.ListByContainer(ctx, containerID)
}

func (s *progressService) ListByUser(ctx context.Context, userID string) ([]*domain.UserCriterion, error) {
	return s.progress.ListByUser(ctx, userID)
}
