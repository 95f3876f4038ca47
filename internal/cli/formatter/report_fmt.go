package formatter

import (
	"fmt"
	"strings"

	"github.com/gradetrack/gradetrack/internal/domain"
	"github.com/gradetrack/gradetrack/internal/service"
)

// RenderReport renders a full evaluation report as one tree per root
// container, with criterion lines nested under their container and a
// summary of fulfilled weight as the detail badge.
func RenderReport(reports []*service.ContainerReport) string {
	var b strings.Builder
	for i, report := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		items := reportItems(report, 0, true)
		b.WriteString(RenderTree(items))
	}
	return b.String()
}

func reportItems(report *service.ContainerReport, level int, isLast bool) []TreeItem {
	done, total := tallyWeights(report)
	item := TreeItem{
		Title:  StyleBold.Render(report.Container.Title),
		Level:  level,
		IsLast: isLast,
		Done:   total > 0 && done == total,
	}
	if total > 0 {
		item.Detail = fmt.Sprintf("%s / %s", trimFloat(done), trimFloat(total))
	}
	items := []TreeItem{item}

	for idx, cr := range report.Criteria {
		last := idx == len(report.Criteria)-1 && len(report.Children) == 0
		items = append(items, TreeItem{
			Title:  criterionLine(cr),
			Level:  level + 1,
			IsLast: last,
			Done:   criterionDone(cr),
		})
	}
	for idx, child := range report.Children {
		items = append(items, reportItems(child, level+1, idx == len(report.Children)-1)...)
	}
	return items
}

func criterionLine(cr service.CriterionReport) string {
	parts := []string{cr.Criterion.Name, WeightBadge(cr.Weight)}
	switch cr.Criterion.Type {
	case domain.CriterionCountable:
		parts = append(parts, StyleBlue.Render(fmt.Sprintf("%d×", cr.Count)))
	case domain.CriterionBoolean:
		parts = append(parts, FulfilledPill(cr.Fulfilled))
	case domain.CriterionText:
		if cr.Text != "" {
			parts = append(parts, StylePurple.Render(fmt.Sprintf("%q", truncate(cr.Text, 40))))
		} else {
			parts = append(parts, Dim("no entry"))
		}
	}
	if !cr.Started {
		parts = append(parts, Dim("not started"))
	} else if cr.Reviewed {
		parts = append(parts, StyleGreen.Render("reviewed"))
	}
	return strings.Join(parts, " ")
}

// criterionDone reports whether a criterion line counts as completed for
// display purposes.
func criterionDone(cr service.CriterionReport) bool {
	if !cr.Started {
		return false
	}
	switch cr.Criterion.Type {
	case domain.CriterionCountable:
		return cr.Count > 0
	case domain.CriterionBoolean:
		return cr.Fulfilled
	case domain.CriterionText:
		return cr.Text != ""
	}
	return false
}

// ReportCompletion returns the fulfilled share of the total criterion weight
// across all given reports, between 0 and 1. Reports with no criteria at all
// yield 0.
func ReportCompletion(reports []*service.ContainerReport) float64 {
	var done, total float64
	for _, report := range reports {
		d, t := tallyWeights(report)
		done += d
		total += t
	}
	if total == 0 {
		return 0
	}
	return done / total
}

// tallyWeights sums completed and total criterion weights over the whole
// subtree rooted at report.
func tallyWeights(report *service.ContainerReport) (done, total float64) {
	for _, cr := range report.Criteria {
		total += cr.Weight
		if criterionDone(cr) {
			done += cr.Weight
		}
	}
	for _, child := range report.Children {
		d, t := tallyWeights(child)
		done += d
		total += t
	}
	return done, total
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
