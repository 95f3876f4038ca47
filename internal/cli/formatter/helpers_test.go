package formatter

import (
	"testing"
	"time"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTypePill(t *testing.T) {
	tests := []struct {
		typ      domain.CriterionType
		contains string
	}{
		{domain.CriterionCountable, "countable"},
		{domain.CriterionBoolean, "boolean"},
		{domain.CriterionText, "text"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got := TypePill(tt.typ)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestFulfilledPill(t *testing.T) {
	assert.Contains(t, FulfilledPill(true), "yes")
	assert.Contains(t, FulfilledPill(false), "no")
}

func TestReviewedPill(t *testing.T) {
	assert.Contains(t, ReviewedPill(true), "reviewed")
	assert.Contains(t, ReviewedPill(false), "pending")
}

func TestWeightBadge(t *testing.T) {
	assert.Contains(t, WeightBadge(1), "×1")
	assert.Contains(t, WeightBadge(2.5), "×2.5")
	// Trailing zeros are trimmed.
	assert.Contains(t, WeightBadge(3.0), "×3")
	assert.NotContains(t, WeightBadge(3.0), "×3.00")
}

func TestTruncID(t *testing.T) {
	got := TruncID("0123456789abcdef")
	assert.Contains(t, got, "01234567")
	assert.NotContains(t, got, "89abcdef")

	short := TruncID("ab")
	assert.Contains(t, short, "ab")
}

func TestHumanDate(t *testing.T) {
	past := time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sep 30, 2022", HumanDate(past))

	assert.Equal(t, "Today", HumanDate(time.Now()))
	assert.Equal(t, "Yesterday", HumanDate(time.Now().AddDate(0, 0, -1)))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "Just now", HumanTimestamp(now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute)))
	assert.Equal(t, "2h ago", HumanTimestamp(now.Add(-2*time.Hour)))

	// More than 24h falls back to HumanDate.
	assert.NotEmpty(t, HumanTimestamp(now.Add(-48*time.Hour)))
}
