package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type catalogService struct {
	criteria repository.CriterionRepo
	uow      db.UnitOfWork
}

func NewCatalogService(criteria repository.CriterionRepo, uow db.UnitOfWork) CatalogService {
	return &catalogService{criteria: criteria, uow: uow}
}

func (s *catalogService) Create(ctx context.Context, c *domain.Criterion) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.criteria.Create(ctx, c)
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*domain.Criterion, error) {
	return s.criteria.GetByID(ctx, id)
}

func (s *catalogService) GetByName(ctx context.Context, name string) (*domain.Criterion, error) {
	return s.criteria.GetByName(ctx, name)
}

func (s *catalogService) List(ctx context.Context) ([]*domain.Criterion, error) {
	return s.criteria.List(ctx)
}

// Delete runs the in-use check and the delete in one transaction so a
// concurrent attach cannot slip between them.
func (s *catalogService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCriteria := repository.NewSQLiteCriterionRepo(tx)
		used, err := txCriteria.InUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("criterion %s has associations or progress records: %w", id, domain.ErrInUse)
		}
		return txCriteria.Delete(ctx, id)
	})
}
