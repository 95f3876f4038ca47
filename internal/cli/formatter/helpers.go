package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gradetrack/gradetrack/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TypePill returns a colored label for a criterion type.
func TypePill(typ domain.CriterionType) string {
	switch typ {
	case domain.CriterionCountable:
		return StyleBlue.Render("# countable")
	case domain.CriterionBoolean:
		return StyleGreen.Render("✓ boolean")
	case domain.CriterionText:
		return StylePurple.Render("¶ text")
	default:
		return StyleDim.Render(string(typ))
	}
}

// FulfilledPill returns a colored yes/no indicator for a boolean value.
func FulfilledPill(fulfilled bool) string {
	if fulfilled {
		return StyleGreen.Render("✔ yes")
	}
	return StyleDim.Render("○ no")
}

// ReviewedPill marks whether a record has been looked over.
func ReviewedPill(reviewed bool) string {
	if reviewed {
		return StyleGreen.Render("reviewed")
	}
	return StyleYellow.Render("pending")
}

// WeightBadge renders a weight, dimming the default value so overrides
// stand out.
func WeightBadge(weight float64) string {
	text := fmt.Sprintf("×%s", trimFloat(weight))
	if weight == 1 {
		return StyleDim.Render(text)
	}
	return StylePurple.Render(text)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}
