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

type containerService struct {
	containers repository.ContainerRepo
	criteria   repository.CriterionRepo
	assocs     repository.AssociationRepo
	roles      repository.RoleRepo
	uow        db.UnitOfWork
}

func NewContainerService(
	containers repository.ContainerRepo,
	criteria repository.CriterionRepo,
	assocs repository.AssociationRepo,
	roles repository.RoleRepo,
	uow db.UnitOfWork,
) ContainerService {
	return &containerService{
		containers: containers,
		criteria:   criteria,
		assocs:     assocs,
		roles:      roles,
		uow:        uow,
	}
}

func (s *containerService) Create(ctx context.Context, c *domain.Container) error {
	if c.Title == "" {
		return fmt.Errorf("container title is empty: %w", domain.ErrInvalidValue)
	}
	if c.ParentID != nil {
		if _, err := s.containers.GetByID(ctx, *c.ParentID); err != nil {
			return err
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	idx, err := s.containers.NextOrderIndex(ctx, c.ParentID)
	if err != nil {
		return err
	}
	c.OrderIndex = idx
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.containers.Create(ctx, c)
}

func (s *containerService) GetByID(ctx context.Context, id string) (*domain.Container, error) {
	return s.containers.GetByID(ctx, id)
}

func (s *containerService) ListChildren(ctx context.Context, parentID string) ([]*domain.Container, error) {
	return s.containers.ListChildren(ctx, parentID)
}

func (s *containerService) ListRoots(ctx context.Context) ([]*domain.Container, error) {
	return s.containers.ListRoots(ctx)
}

func (s *containerService) Update(ctx context.Context, c *domain.Container) error {
	c.UpdatedAt = time.Now().UTC()
	return s.containers.Update(ctx, c)
}

// SetParent moves a container (with its subtree) under a new parent, or to
// the root level when parentID is nil. The move is rejected when the new
// parent sits inside the moved subtree, which would close a cycle.
func (s *containerService) SetParent(ctx context.Context, id string, parentID *string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txContainers := repository.NewSQLiteContainerRepo(tx)

		c, err := txContainers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if parentID != nil {
			if *parentID == id {
				return fmt.Errorf("container %s cannot be its own parent: %w", id, domain.ErrCycleDetected)
			}
			// Walk from the candidate parent toward the root; hitting the
			// moved container means the parent lives in its subtree.
			cursor := *parentID
			for {
				ancestor, err := txContainers.GetByID(ctx, cursor)
				if err != nil {
					return err
				}
				if ancestor.ParentID == nil {
					break
				}
				if *ancestor.ParentID == id {
					return fmt.Errorf("container %s is a descendant of %s: %w", *parentID, id, domain.ErrCycleDetected)
				}
				cursor = *ancestor.ParentID
			}
		}

		idx, err := txContainers.NextOrderIndex(ctx, parentID)
		if err != nil {
			return err
		}
		c.ParentID = parentID
		c.OrderIndex = idx
		c.UpdatedAt = time.Now().UTC()
		return txContainers.Update(ctx, c)
	})
}

func (s *containerService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txContainers := repository.NewSQLiteContainerRepo(tx)
		if _, err := txContainers.GetByID(ctx, id); err != nil {
			return err
		}
		return txContainers.Delete(ctx, id)
	})
}

// Copy deep-clones the subtree rooted at id under the given parent, naming
// the clone root newTitle. Clones get fresh IDs and carry over descriptions
// and criterion associations; descendants keep their own titles and progress
// records do not follow the copy.
func (s *containerService) Copy(ctx context.Context, id, newTitle string, parentID *string) (*domain.Container, error) {
	if newTitle == "" {
		return nil, fmt.Errorf("container title is empty: %w", domain.ErrInvalidValue)
	}
	var clone *domain.Container
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txContainers := repository.NewSQLiteContainerRepo(tx)
		txAssocs := repository.NewSQLiteAssociationRepo(tx)

		source, err := txContainers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if parentID != nil {
			// A target inside the copied subtree would make the clone
			// part of the tree still being traversed.
			if *parentID == id {
				return fmt.Errorf("container %s cannot receive a copy of itself: %w", id, domain.ErrCycleDetected)
			}
			cursor := *parentID
			for {
				ancestor, err := txContainers.GetByID(ctx, cursor)
				if err != nil {
					return err
				}
				if ancestor.ParentID == nil {
					break
				}
				if *ancestor.ParentID == id {
					return fmt.Errorf("container %s is a descendant of %s: %w", *parentID, id, domain.ErrCycleDetected)
				}
				cursor = *ancestor.ParentID
			}
		}
		idx, err := txContainers.NextOrderIndex(ctx, parentID)
		if err != nil {
			return err
		}
		clone, err = s.cloneSubtree(ctx, txContainers, txAssocs, source, newTitle, parentID, idx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

func (s *containerService) cloneSubtree(
	ctx context.Context,
	containers *repository.SQLiteContainerRepo,
	assocs *repository.SQLiteAssociationRepo,
	source *domain.Container,
	title string,
	parentID *string,
	orderIndex int,
) (*domain.Container, error) {
	now := time.Now().UTC()
	clone := &domain.Container{
		ID:          uuid.New().String(),
		ParentID:    parentID,
		Title:       title,
		Description: source.Description,
		OrderIndex:  orderIndex,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := containers.Create(ctx, clone); err != nil {
		return nil, err
	}

	entries, err := assocs.ListByContainer(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if err := assocs.Upsert(ctx, &domain.ContainerCriterion{
			ContainerID: clone.ID,
			CriterionID: entry.CriterionID,
			RoleID:      entry.RoleID,
			Weight:      entry.Weight,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return nil, err
		}
	}

	children, err := containers.ListChildren(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if _, err := s.cloneSubtree(ctx, containers, assocs, child, child.Title, &clone.ID, child.OrderIndex); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

// AttachCriterion adds a weight entry for (container, criterion, role) or
// updates the weight when the entry already exists.
func (s *containerService) AttachCriterion(ctx context.Context, a *domain.ContainerCriterion) error {
	if a.Weight < 0 {
		return fmt.Errorf("weight %v is negative: %w", a.Weight, domain.ErrInvalidValue)
	}
	if _, err := s.containers.GetByID(ctx, a.ContainerID); err != nil {
		return err
	}
	if _, err := s.criteria.GetByID(ctx, a.CriterionID); err != nil {
		return err
	}
	if a.RoleID != domain.RoleNone {
		if _, err := s.roles.GetByID(ctx, a.RoleID); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.assocs.Upsert(ctx, a)
}

func (s *containerService) DetachCriterion(ctx context.Context, containerID, criterionID, roleID string) error {
	return s.assocs.Remove(ctx, containerID, criterionID, roleID)
}

func (s *containerService) ListCriteria(ctx context.Context, containerID string) ([]*domain.ContainerCriterion, error) {
	return s.assocs.ListByContainer(ctx, containerID)
}
