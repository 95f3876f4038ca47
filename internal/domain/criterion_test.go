package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriterionType(t *testing.T) {
	tests := []struct {
		input   string
		want    CriterionType
		wantErr bool
	}{
		{"countable", CriterionCountable, false},
		{"boolean", CriterionBoolean, false},
		{"text", CriterionText, false},
		{"numeric", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCriterionType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCriterionValidate(t *testing.T) {
	c := &Criterion{Name: "commits", Type: CriterionCountable}
	assert.NoError(t, c.Validate())

	noName := &Criterion{Type: CriterionCountable}
	assert.ErrorIs(t, noName.Validate(), ErrInvalidValue)

	badType := &Criterion{Name: "commits", Type: "numeric"}
	assert.ErrorIs(t, badType.Validate(), ErrInvalidValue)
}

func TestContainerIsRoot(t *testing.T) {
	root := &Container{ID: "a"}
	assert.True(t, root.IsRoot())

	parent := "a"
	child := &Container{ID: "b", ParentID: &parent}
	assert.False(t, child.IsRoot())
}
