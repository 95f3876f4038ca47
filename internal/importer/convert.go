package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gradetrack/gradetrack/internal/domain"
)

// Generated holds domain objects converted from an archive, ready for
// persistence. Slices preserve archive order, so containers stay parents
// before children.
type Generated struct {
	Criteria     []*domain.Criterion
	Roles        []*domain.Role
	Users        []*domain.User
	Containers   []*domain.Container
	Associations []*domain.ContainerCriterion
	Memberships  []*domain.Membership
	Records      []*domain.UserCriterion
	Texts        []*domain.TextEntry
}

// Convert transforms a validated archive into domain objects with fresh IDs.
// Call ValidateArchive first; Convert assumes the archive is valid.
func Convert(a *Archive) (*Generated, error) {
	now := time.Now().UTC()
	g := &Generated{}

	criterionIDs := make(map[string]string)
	for _, c := range a.Criteria {
		typ, err := domain.ParseCriterionType(c.Type)
		if err != nil {
			return nil, err
		}
		id := uuid.New().String()
		criterionIDs[c.Ref] = id
		g.Criteria = append(g.Criteria, &domain.Criterion{
			ID:        id,
			Name:      c.Name,
			Type:      typ,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	roleIDs := make(map[string]string)
	for _, r := range a.Roles {
		id := uuid.New().String()
		roleIDs[r.Ref] = id
		g.Roles = append(g.Roles, &domain.Role{
			ID:          id,
			Name:        r.Name,
			Description: r.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	userIDs := make(map[string]string)
	for _, u := range a.Users {
		id := uuid.New().String()
		userIDs[u.Ref] = id
		g.Users = append(g.Users, &domain.User{
			ID:        id,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	containerIDs := make(map[string]string)
	for _, c := range a.Containers {
		id := uuid.New().String()
		containerIDs[c.Ref] = id
		var parentID *string
		if c.ParentRef != nil {
			pid, ok := containerIDs[*c.ParentRef]
			if !ok {
				return nil, fmt.Errorf("container %q references unconverted parent %q", c.Ref, *c.ParentRef)
			}
			parentID = &pid
		}
		g.Containers = append(g.Containers, &domain.Container{
			ID:          id,
			ParentID:    parentID,
			Title:       c.Title,
			Description: c.Description,
			OrderIndex:  c.Order,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, assoc := range a.Associations {
		roleID := domain.RoleNone
		if assoc.RoleRef != "" {
			roleID = roleIDs[assoc.RoleRef]
		}
		g.Associations = append(g.Associations, &domain.ContainerCriterion{
			ContainerID: containerIDs[assoc.ContainerRef],
			CriterionID: criterionIDs[assoc.CriterionRef],
			RoleID:      roleID,
			Weight:      assoc.Weight,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, m := range a.Memberships {
		g.Memberships = append(g.Memberships, &domain.Membership{
			UserID:      userIDs[m.UserRef],
			ContainerID: containerIDs[m.ContainerRef],
			RoleID:      roleIDs[m.RoleRef],
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, r := range a.Records {
		recordID := uuid.New().String()
		var containerID *string
		if r.ContainerRef != nil {
			cid := containerIDs[*r.ContainerRef]
			containerID = &cid
		}
		g.Records = append(g.Records, &domain.UserCriterion{
			ID:          recordID,
			UserID:      userIDs[r.UserRef],
			CriterionID: criterionIDs[r.CriterionRef],
			ContainerID: containerID,
			CountValue:  r.Count,
			IsFulfilled: r.Fulfilled,
			Reviewed:    r.Reviewed,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		for _, e := range r.Texts {
			createdAt := now
			if e.CreatedAt != "" {
				t, err := time.Parse(time.RFC3339, e.CreatedAt)
				if err != nil {
					return nil, fmt.Errorf("parsing text entry created_at: %w", err)
				}
				createdAt = t
			}
			g.Texts = append(g.Texts, &domain.TextEntry{
				UserCriterionID: recordID,
				Value:           e.Value,
				Active:          e.Active,
				CreatedAt:       createdAt,
			})
		}
	}

	return g, nil
}
