package service

import (
	"context"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/importer"
)

type CatalogService interface {
	Create(ctx context.Context, c *domain.Criterion) error
	GetByID(ctx context.Context, id string) (*domain.Criterion, error)
	GetByName(ctx context.Context, name string) (*domain.Criterion, error)
	List(ctx context.Context) ([]*domain.Criterion, error)
	Delete(ctx context.Context, id string) error
}

type ContainerService interface {
	Create(ctx context.Context, c *domain.Container) error
	GetByID(ctx context.Context, id string) (*domain.Container, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Container, error)
	ListRoots(ctx context.Context) ([]*domain.Container, error)
	Update(ctx context.Context, c *domain.Container) error
	SetParent(ctx context.Context, id string, parentID *string) error
	Delete(ctx context.Context, id string) error
	Copy(ctx context.Context, id, newTitle string, parentID *string) (*domain.Container, error)
	AttachCriterion(ctx context.Context, a *domain.ContainerCriterion) error
	DetachCriterion(ctx context.Context, containerID, criterionID, roleID string) error
	ListCriteria(ctx context.Context, containerID string) ([]*domain.ContainerCriterion, error)
}

// WeightResolver answers what a criterion is worth for one user in one
// container: the user's role-scoped entry when both exist, else the default
// entry, else 1.
type WeightResolver interface {
	EffectiveWeight(ctx context.Context, userID, containerID, criterionID string) (float64, error)
}

type ProgressService interface {
	Record(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error)
	Increment(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error)
	Decrement(ctx context.Context, userID, criterionID string, containerID *string) (*domain.UserCriterion, error)
	SetBoolean(ctx context.Context, userID, criterionID string, containerID *string, fulfilled bool) (*domain.UserCriterion, error)
	SetText(ctx context.Context, userID, criterionID string, containerID *string, value string) (*domain.UserCriterion, error)
	SetReviewed(ctx context.Context, recordID string, reviewed bool) error
	ActiveText(ctx context.Context, recordID string) (*domain.TextEntry, error)
	TextHistory(ctx context.Context, recordID string, limit int) ([]*domain.TextEntry, error)
	ListByContainer(ctx context.Context, containerID string) ([]*domain.UserCriterion, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.UserCriterion, error)
}

// ReconcileResult reports how many progress records a reconciliation pass
// created.
type ReconcileResult struct {
	Users   int
	Created int
}

type ReconcileService interface {
	EnsureForContainer(ctx context.Context, containerID string) (*ReconcileResult, error)
	EnsureAll(ctx context.Context) (*ReconcileResult, error)
}

// CriterionReport is one criterion's line in an evaluation report. Started
// is false when the user has no progress record for the pairing; the value
// fields then hold their zero defaults.
type CriterionReport struct {
	Criterion *domain.Criterion
	Weight    float64
	Started   bool
	Count     int
	Fulfilled bool
	Text      string
	Reviewed  bool
}

// ContainerReport is one container's subtree in an evaluation report.
type ContainerReport struct {
	Container *domain.Container
	Criteria  []CriterionReport
	Children  []*ContainerReport
}

type EvaluateService interface {
	// Evaluate builds the report for one user over the subtree rooted at
	// rootID, or over every root when rootID is nil. Evaluation is a pure
	// read; it never creates progress records.
	Evaluate(ctx context.Context, userID string, rootID *string) ([]*ContainerReport, error)
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type RoleService interface {
	Create(ctx context.Context, r *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, userID, containerID, roleID string) error
	RoleOf(ctx context.Context, userID, containerID string) (string, error)
	Unassign(ctx context.Context, userID, containerID string) error
	ListMembers(ctx context.Context, containerID string) ([]*domain.Membership, error)
}

type CommentService interface {
	Add(ctx context.Context, c *domain.Comment) error
	ListFor(ctx context.Context, userID, containerID string) ([]*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
}

// ArchiveResult holds the outcome of an archive import.
type ArchiveResult struct {
	Criteria     int
	Containers   int
	Associations int
	Roles        int
	Users        int
	Records      int
	Reconciled   int
}

type ArchiveService interface {
	Export(ctx context.Context) (*importer.Archive, error)
	ImportArchive(ctx context.Context, filePath string) (*ArchiveResult, error)
	ImportFromArchive(ctx context.Context, archive *importer.Archive) (*ArchiveResult, error)
}
