package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func minimalArchive() *Archive {
	return &Archive{
		Criteria: []CriterionArchive{
			{Ref: "c1", Name: "Commits", Type: "countable"},
		},
		Containers: []ContainerArchive{
			{Ref: "root", Title: "Program"},
			{Ref: "child", ParentRef: strPtr("root"), Title: "Phase"},
		},
		Associations: []AssociationArchive{
			{ContainerRef: "child", CriterionRef: "c1", Weight: 1},
		},
	}
}

func TestValidateArchive_Valid(t *testing.T) {
	assert.Empty(t, ValidateArchive(minimalArchive()))
}

func TestValidateArchive_BadCriterionType(t *testing.T) {
	a := minimalArchive()
	a.Criteria[0].Type = "percentage"
	errs := ValidateArchive(a)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid type")
}

func TestValidateArchive_ParentMustPrecedeChild(t *testing.T) {
	a := minimalArchive()
	a.Containers[0], a.Containers[1] = a.Containers[1], a.Containers[0]
	errs := ValidateArchive(a)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "does not precede")
}

func TestValidateArchive_UnknownRefs(t *testing.T) {
	a := minimalArchive()
	a.Associations = append(a.Associations, AssociationArchive{
		ContainerRef: "nowhere", CriterionRef: "missing", RoleRef: "ghost", Weight: 1,
	})
	errs := ValidateArchive(a)
	assert.Len(t, errs, 3)
}

func TestValidateArchive_NegativeWeight(t *testing.T) {
	a := minimalArchive()
	a.Associations[0].Weight = -1
	errs := ValidateArchive(a)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "negative")
}

func TestValidateArchive_DuplicateAssociationKey(t *testing.T) {
	a := minimalArchive()
	a.Associations = append(a.Associations, a.Associations[0])
	errs := ValidateArchive(a)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate entry")
}

func TestValidateArchive_RecordChecks(t *testing.T) {
	a := minimalArchive()
	a.Users = []UserArchive{{Ref: "u1", Email: "u1@example.test"}}
	a.Records = []RecordArchive{
		{
			UserRef: "u1", CriterionRef: "c1", ContainerRef: strPtr("child"),
			Texts: []TextEntryArchive{
				{Value: "a", Active: true, CreatedAt: "2026-01-01T00:00:00Z"},
				{Value: "b", Active: true, CreatedAt: "2026-01-02T00:00:00Z"},
			},
		},
	}
	errs := ValidateArchive(a)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "active text entries")
}
