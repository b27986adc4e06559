// Package table converts reconciliation results into rows for console tables.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/storycheck/pkg/reconcile"
	"github.com/agentstation/storycheck/pkg/stories"
)

// Absent is rendered in place of a missing value.
const Absent = "-"

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// MissingToTableData converts stories found on one side only.
func MissingToTableData(rows []reconcile.MissingRow) Data {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			FormatOptional(r.ParentFeature),
			FormatOptional(r.TrackerKey),
			FormatOptional(r.TrackerSummary),
			FormatOptional(r.PlanKey),
			FormatOptional(r.PlanSummary),
			FormatOptional(r.URL),
		})
	}

	return Data{
		Headers: []string{"Jira Parent Feature", "Jira Key", "Jira Summary", "Miro Key", "Miro Summary", "URL"},
		Rows:    out,
	}
}

// MismatchedToTableData converts stories whose points differ.
func MismatchedToTableData(rows []reconcile.MismatchRow) Data {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Key,
			r.URL,
			FormatPoints(r.PlanPoints),
			FormatPoints(r.TrackerPoints),
		})
	}

	return Data{
		Headers:         []string{"Key", "URL", "Miro Points", "Jira Points"},
		Rows:            out,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// StoriesToTableData converts report stories. Wide output adds the
// people and planning columns.
func StoriesToTableData(report []stories.Story, wide bool) Data {
	headers := []string{"Key", "Points", "Type", "Parent Feature", "Updated", "Summary"}
	align := []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Sprints", "Assignee", "Leading Work Group", "Fix Versions", "Labels")
		align = append(align, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(report))
	for _, s := range report {
		row := []string{
			s.Key,
			FormatPoints(s.Points),
			s.IssueType,
			FormatOptional(s.ParentFeature),
			s.Updated,
			s.Summary,
		}
		if wide {
			row = append(row,
				FormatList(s.Sprints),
				FormatOptional(s.Assignee),
				FormatOptional(s.LeadingWorkGroup),
				FormatList(s.FixVersions),
				FormatList(s.Labels),
			)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: align,
	}
}

// FormatPoints renders an estimate in its shortest form, 3 rather than 3.0.
func FormatPoints(p *float64) string {
	if p == nil {
		return Absent
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// FormatOptional renders an optional string. Present-but-empty stays empty.
func FormatOptional(s *string) string {
	if s == nil {
		return Absent
	}
	return *s
}

// FormatList joins a list with commas, or renders Absent when empty.
func FormatList(items []string) string {
	if len(items) == 0 {
		return Absent
	}
	return strings.Join(items, ", ")
}
