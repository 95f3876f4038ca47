package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gradetrack/gradetrack/internal/db"
	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/importer"
	"github.com/gradetrack/gradetrack/internal/repository"
)

type archiveService struct {
	criteria    repository.CriterionRepo
	containers  repository.ContainerRepo
	assocs      repository.AssociationRepo
	users       repository.UserRepo
	roles       repository.RoleRepo
	memberships repository.MembershipRepo
	progress    repository.ProgressRepo
	texts       repository.TextEntryRepo
	reconcile   ReconcileService
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewArchiveService(
	criteria repository.CriterionRepo,
	containers repository.ContainerRepo,
	assocs repository.AssociationRepo,
	users repository.UserRepo,
	roles repository.RoleRepo,
	memberships repository.MembershipRepo,
	progress repository.ProgressRepo,
	texts repository.TextEntryRepo,
	reconcile ReconcileService,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ArchiveService {
	return &archiveService{
		criteria:    criteria,
		containers:  containers,
		assocs:      assocs,
		users:       users,
		roles:       roles,
		memberships: memberships,
		progress:    progress,
		texts:       texts,
		reconcile:   reconcile,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Export snapshots the whole database into a ref-based archive. Containers
// are emitted depth first so parents always precede their children.
func (s *archiveService) Export(ctx context.Context) (*importer.Archive, error) {
	archive := &importer.Archive{}

	criterionRefs := make(map[string]string)
	criteria, err := s.criteria.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, c := range criteria {
		ref := fmt.Sprintf("criterion-%d", i+1)
		criterionRefs[c.ID] = ref
		archive.Criteria = append(archive.Criteria, importer.CriterionArchive{
			Ref:  ref,
			Name: c.Name,
			Type: string(c.Type),
		})
	}

	roleRefs := make(map[string]string)
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, r := range roles {
		ref := fmt.Sprintf("role-%d", i+1)
		roleRefs[r.ID] = ref
		archive.Roles = append(archive.Roles, importer.RoleArchive{
			Ref:         ref,
			Name:        r.Name,
			Description: r.Description,
		})
	}

	userRefs := make(map[string]string)
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		ref := fmt.Sprintf("user-%d", i+1)
		userRefs[u.ID] = ref
		archive.Users = append(archive.Users, importer.UserArchive{
			Ref:       ref,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		})
	}

	containerRefs := make(map[string]string)
	roots, err := s.containers.ListRoots(ctx)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if err := s.exportSubtree(ctx, root, nil, containerRefs, archive); err != nil {
			return nil, err
		}
	}

	allAssocs, err := s.assocs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range allAssocs {
		archive.Associations = append(archive.Associations, importer.AssociationArchive{
			ContainerRef: containerRefs[a.ContainerID],
			CriterionRef: criterionRefs[a.CriterionID],
			RoleRef:      roleRefs[a.RoleID],
			Weight:       a.Weight,
		})
	}

	allMemberships, err := s.memberships.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range allMemberships {
		archive.Memberships = append(archive.Memberships, importer.MembershipArchive{
			UserRef:      userRefs[m.UserID],
			ContainerRef: containerRefs[m.ContainerID],
			RoleRef:      roleRefs[m.RoleID],
		})
	}

	records, err := s.progress.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		entry := importer.RecordArchive{
			UserRef:      userRefs[rec.UserID],
			CriterionRef: criterionRefs[rec.CriterionID],
			Count:        rec.CountValue,
			Fulfilled:    rec.IsFulfilled,
			Reviewed:     rec.Reviewed,
		}
		if rec.ContainerID != nil {
			ref := containerRefs[*rec.ContainerID]
			entry.ContainerRef = &ref
		}
		history, err := s.texts.ListByRecord(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range history {
			entry.Texts = append(entry.Texts, importer.TextEntryArchive{
				Value:     e.Value,
				Active:    e.Active,
				CreatedAt: e.CreatedAt.Format(time.RFC3339),
			})
		}
		archive.Records = append(archive.Records, entry)
	}

	return archive, nil
}

func (s *archiveService) exportSubtree(ctx context.Context, c *domain.Container, parentRef *string, refs map[string]string, archive *importer.Archive) error {
	ref := fmt.Sprintf("container-%d", len(refs)+1)
	refs[c.ID] = ref
	archive.Containers = append(archive.Containers, importer.ContainerArchive{
		Ref:         ref,
		ParentRef:   parentRef,
		Title:       c.Title,
		Description: c.Description,
		Order:       c.OrderIndex,
	})

	children, err := s.containers.ListChildren(ctx, c.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.exportSubtree(ctx, child, &ref, refs, archive); err != nil {
			return err
		}
	}
	return nil
}

func (s *archiveService) ImportArchive(ctx context.Context, filePath string) (*ArchiveResult, error) {
	archive, err := importer.LoadArchive(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading archive file: %w", err)
	}
	return s.ImportFromArchive(ctx, archive)
}

// ImportFromArchive validates, converts and persists the archive in one
// transaction, then runs a full reconciliation pass so every user holds a
// record for every imported association.
func (s *archiveService) ImportFromArchive(ctx context.Context, archive *importer.Archive) (result *ArchiveResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-archive",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"containers": len(archive.Containers)},
		})
	}()

	if errs := importer.ValidateArchive(archive); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	generated, err := importer.Convert(archive)
	if err != nil {
		return nil, fmt.Errorf("converting archive: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return persistGenerated(ctx, tx, generated)
	})
	if err != nil {
		return nil, err
	}

	reconciled, err := s.reconcile.EnsureAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconciling after import: %w", err)
	}

	return &ArchiveResult{
		Criteria:     len(generated.Criteria),
		Containers:   len(generated.Containers),
		Associations: len(generated.Associations),
		Roles:        len(generated.Roles),
		Users:        len(generated.Users),
		Records:      len(generated.Records),
		Reconciled:   reconciled.Created,
	}, nil
}

func persistGenerated(ctx context.Context, tx db.DBTX, g *importer.Generated) error {
	txCriteria := repository.NewSQLiteCriterionRepo(tx)
	txContainers := repository.NewSQLiteContainerRepo(tx)
	txAssocs := repository.NewSQLiteAssociationRepo(tx)
	txUsers := repository.NewSQLiteUserRepo(tx)
	txRoles := repository.NewSQLiteRoleRepo(tx)
	txMemberships := repository.NewSQLiteMembershipRepo(tx)
	txProgress := repository.NewSQLiteProgressRepo(tx)
	txTexts := repository.NewSQLiteTextEntryRepo(tx)

	for _, c := range g.Criteria {
		if err := txCriteria.Create(ctx, c); err != nil {
			return fmt.Errorf("creating criterion %q: %w", c.Name, err)
		}
	}
	for _, r := range g.Roles {
		if err := txRoles.Create(ctx, r); err != nil {
			return fmt.Errorf("creating role %q: %w", r.Name, err)
		}
	}
	for _, u := range g.Users {
		if err := txUsers.Create(ctx, u); err != nil {
			return fmt.Errorf("creating user %q: %w", u.Email, err)
		}
	}
	for _, c := range g.Containers {
		if err := txContainers.Create(ctx, c); err != nil {
			return fmt.Errorf("creating container %q: %w", c.Title, err)
		}
	}
	for _, a := range g.Associations {
		if err := txAssocs.Upsert(ctx, a); err != nil {
			return fmt.Errorf("creating association: %w", err)
		}
	}
	for _, m := range g.Memberships {
		if err := txMemberships.Assign(ctx, m); err != nil {
			return fmt.Errorf("creating membership: %w", err)
		}
	}

	// Records go through the same get-or-create path as live grading, so an
	// import can never produce two rows for one key.
	recordIDs := make(map[string]string, len(g.Records))
	for _, rec := range g.Records {
		uc, err := txProgress.GetOrCreate(ctx, rec.UserID, rec.CriterionID, rec.ContainerID)
		if err != nil {
			return fmt.Errorf("creating progress record: %w", err)
		}
		recordIDs[rec.ID] = uc.ID
		if rec.CountValue != 0 {
			if err := txProgress.AddCount(ctx, uc.ID, rec.CountValue); err != nil {
				return err
			}
		}
		if rec.IsFulfilled {
			if err := txProgress.SetFulfilled(ctx, uc.ID, true); err != nil {
				return err
			}
		}
		if rec.Reviewed {
			if err := txProgress.SetReviewed(ctx, uc.ID, true); err != nil {
				return err
			}
		}
	}
	for _, e := range g.Texts {
		e.UserCriterionID = recordIDs[e.UserCriterionID]
		if err := txTexts.Insert(ctx, e); err != nil {
			return fmt.Errorf("creating text entry: %w", err)
		}
	}
	return nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("archive validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
