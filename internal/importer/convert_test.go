package importer

import (
	"testing"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_ResolvesRefsToFreshIDs(t *testing.T) {
	a := minimalArchive()
	a.Roles = []RoleArchive{{Ref: "r1", Name: "reviewer"}}
	a.Associations = append(a.Associations, AssociationArchive{
		ContainerRef: "child", CriterionRef: "c1", RoleRef: "r1", Weight: 3,
	})

	g, err := Convert(a)
	require.NoError(t, err)

	require.Len(t, g.Containers, 2)
	root, child := g.Containers[0], g.Containers[1]
	assert.Nil(t, root.ParentID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	require.Len(t, g.Associations, 2)
	assert.Equal(t, child.ID, g.Associations[0].ContainerID)
	assert.Equal(t, g.Criteria[0].ID, g.Associations[0].CriterionID)
	assert.Equal(t, domain.RoleNone, g.Associations[0].RoleID)
	assert.Equal(t, g.Roles[0].ID, g.Associations[1].RoleID)
}

func TestConvert_RecordsCarryTexts(t *testing.T) {
	a := minimalArchive()
	a.Users = []UserArchive{{Ref: "u1", Email: "u1@example.test"}}
	a.Records = []RecordArchive{
		{
			UserRef: "u1", CriterionRef: "c1", ContainerRef: strPtr("child"),
			Count: 2,
			Texts: []TextEntryArchive{
				{Value: "draft", CreatedAt: "2026-01-01T00:00:00Z"},
				{Value: "final", Active: true, CreatedAt: "2026-01-02T00:00:00Z"},
			},
		},
	}

	g, err := Convert(a)
	require.NoError(t, err)
	require.Len(t, g.Records, 1)
	require.Len(t, g.Texts, 2)

	rec := g.Records[0]
	assert.Equal(t, g.Users[0].ID, rec.UserID)
	assert.Equal(t, 2, rec.CountValue)
	require.NotNil(t, rec.ContainerID)

	for _, e := range g.Texts {
		assert.Equal(t, rec.ID, e.UserCriterionID)
	}
	assert.False(t, g.Texts[0].Active)
	assert.True(t, g.Texts[1].Active)
	assert.Equal(t, 2026, g.Texts[0].CreatedAt.Year())
}

func TestConvert_GlobalRecordScope(t *testing.T) {
	a := minimalArchive()
	a.Users = []UserArchive{{Ref: "u1", Email: "u1@example.test"}}
	a.Records = []RecordArchive{
		{UserRef: "u1", CriterionRef: "c1", Fulfilled: true},
	}

	g, err := Convert(a)
	require.NoError(t, err)
	require.Len(t, g.Records, 1)
	assert.Nil(t, g.Records[0].ContainerID)
	assert.True(t, g.Records[0].IsFulfilled)
}
