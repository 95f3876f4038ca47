package importer

import (
	"fmt"
	"time"
)

var validCriterionTypes = map[string]bool{"countable": true, "boolean": true, "text": true}

// ValidateArchive checks the archive for structural errors before
// conversion. Returns a slice of all validation errors found.
func ValidateArchive(a *Archive) []error {
	var errs []error

	criterionRefs := make(map[string]bool)
	errs = append(errs, validateCriteria(a.Criteria, criterionRefs)...)

	roleRefs := make(map[string]bool)
	errs = append(errs, validateRoles(a.Roles, roleRefs)...)

	userRefs := make(map[string]bool)
	errs = append(errs, validateUsers(a.Users, userRefs)...)

	containerRefs := make(map[string]bool)
	errs = append(errs, validateContainers(a.Containers, containerRefs)...)

	errs = append(errs, validateAssociations(a.Associations, containerRefs, criterionRefs, roleRefs)...)
	errs = append(errs, validateMemberships(a.Memberships, userRefs, containerRefs, roleRefs)...)
	errs = append(errs, validateRecords(a.Records, userRefs, criterionRefs, containerRefs)...)

	return errs
}

func validateCriteria(criteria []CriterionArchive, refs map[string]bool) []error {
	var errs []error
	for i, c := range criteria {
		if c.Ref == "" {
			errs = append(errs, fmt.Errorf("criteria[%d]: ref is required", i))
		} else if refs[c.Ref] {
			errs = append(errs, fmt.Errorf("criteria[%d]: duplicate ref %q", i, c.Ref))
		} else {
			refs[c.Ref] = true
		}
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("criteria[%d]: name is required", i))
		}
		if !validCriterionTypes[c.Type] {
			errs = append(errs, fmt.Errorf("criteria[%d]: invalid type %q", i, c.Type))
		}
	}
	return errs
}

func validateRoles(roles []RoleArchive, refs map[string]bool) []error {
	var errs []error
	for i, r := range roles {
		if r.Ref == "" {
			errs = append(errs, fmt.Errorf("roles[%d]: ref is required", i))
		} else if refs[r.Ref] {
			errs = append(errs, fmt.Errorf("roles[%d]: duplicate ref %q", i, r.Ref))
		} else {
			refs[r.Ref] = true
		}
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("roles[%d]: name is required", i))
		}
	}
	return errs
}

func validateUsers(users []UserArchive, refs map[string]bool) []error {
	var errs []error
	for i, u := range users {
		if u.Ref == "" {
			errs = append(errs, fmt.Errorf("users[%d]: ref is required", i))
		} else if refs[u.Ref] {
			errs = append(errs, fmt.Errorf("users[%d]: duplicate ref %q", i, u.Ref))
		} else {
			refs[u.Ref] = true
		}
		if u.Email == "" {
			errs = append(errs, fmt.Errorf("users[%d]: email is required", i))
		}
	}
	return errs
}

func validateContainers(containers []ContainerArchive, refs map[string]bool) []error {
	var errs []error
	for i, c := range containers {
		if c.Ref == "" {
			errs = append(errs, fmt.Errorf("containers[%d]: ref is required", i))
		} else if refs[c.Ref] {
			errs = append(errs, fmt.Errorf("containers[%d]: duplicate ref %q", i, c.Ref))
		}
		if c.Title == "" {
			errs = append(errs, fmt.Errorf("containers[%d]: title is required", i))
		}
		// Parents must precede their children, which also rules out cycles.
		if c.ParentRef != nil && !refs[*c.ParentRef] {
			errs = append(errs, fmt.Errorf("containers[%d]: parent_ref %q does not precede it", i, *c.ParentRef))
		}
		if c.Ref != "" {
			refs[c.Ref] = true
		}
	}
	return errs
}

func validateAssociations(assocs []AssociationArchive, containers, criteria, roles map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, a := range assocs {
		if !containers[a.ContainerRef] {
			errs = append(errs, fmt.Errorf("associations[%d]: unknown container_ref %q", i, a.ContainerRef))
		}
		if !criteria[a.CriterionRef] {
			errs = append(errs, fmt.Errorf("associations[%d]: unknown criterion_ref %q", i, a.CriterionRef))
		}
		if a.RoleRef != "" && !roles[a.RoleRef] {
			errs = append(errs, fmt.Errorf("associations[%d]: unknown role_ref %q", i, a.RoleRef))
		}
		if a.Weight < 0 {
			errs = append(errs, fmt.Errorf("associations[%d]: weight %v is negative", i, a.Weight))
		}
		key := a.ContainerRef + "\x00" + a.CriterionRef + "\x00" + a.RoleRef
		if seen[key] {
			errs = append(errs, fmt.Errorf("associations[%d]: duplicate entry for (%s, %s, %s)", i, a.ContainerRef, a.CriterionRef, a.RoleRef))
		}
		seen[key] = true
	}
	return errs
}

func validateMemberships(memberships []MembershipArchive, users, containers, roles map[string]bool) []error {
	var errs []error
	for i, m := range memberships {
		if !users[m.UserRef] {
			errs = append(errs, fmt.Errorf("memberships[%d]: unknown user_ref %q", i, m.UserRef))
		}
		if !containers[m.ContainerRef] {
			errs = append(errs, fmt.Errorf("memberships[%d]: unknown container_ref %q", i, m.ContainerRef))
		}
		if !roles[m.RoleRef] {
			errs = append(errs, fmt.Errorf("memberships[%d]: unknown role_ref %q", i, m.RoleRef))
		}
	}
	return errs
}

func validateRecords(records []RecordArchive, users, criteria, containers map[string]bool) []error {
	var errs []error
	for i, r := range records {
		if !users[r.UserRef] {
			errs = append(errs, fmt.Errorf("records[%d]: unknown user_ref %q", i, r.UserRef))
		}
		if !criteria[r.CriterionRef] {
			errs = append(errs, fmt.Errorf("records[%d]: unknown criterion_ref %q", i, r.CriterionRef))
		}
		if r.ContainerRef != nil && !containers[*r.ContainerRef] {
			errs = append(errs, fmt.Errorf("records[%d]: unknown container_ref %q", i, *r.ContainerRef))
		}
		if r.Count < 0 {
			errs = append(errs, fmt.Errorf("records[%d]: count %d is negative", i, r.Count))
		}
		activeCount := 0
		for j, e := range r.Texts {
			if e.Value == "" {
				errs = append(errs, fmt.Errorf("records[%d].texts[%d]: value is required", i, j))
			}
			if e.CreatedAt != "" {
				if _, err := time.Parse(time.RFC3339, e.CreatedAt); err != nil {
					errs = append(errs, fmt.Errorf("records[%d].texts[%d]: invalid created_at %q", i, j, e.CreatedAt))
				}
			}
			if e.Active {
				activeCount++
			}
		}
		if activeCount > 1 {
			errs = append(errs, fmt.Errorf("records[%d]: %d active text entries, at most one allowed", i, activeCount))
		}
	}
	return errs
}
