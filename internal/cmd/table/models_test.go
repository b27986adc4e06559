package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/storycheck/internal/utils/ptr"
	"github.com/agentstation/storycheck/pkg/reconcile"
	"github.com/agentstation/storycheck/pkg/stories"
)

func TestMissingToTableData(t *testing.T) {
	data := MissingToTableData([]reconcile.MissingRow{
		{
			ParentFeature:  ptr.String("FEAT-1"),
			TrackerKey:     ptr.String("A-2"),
			TrackerSummary: ptr.String("Only in Jira"),
			URL:            ptr.String("https://jira.example.com/browse/A-2"),
		},
		{
			PlanKey:     ptr.String("A-3"),
			PlanSummary: ptr.String(""),
		},
	})

	assert.Equal(t, []string{"Jira Parent Feature", "Jira Key", "Jira Summary", "Miro Key", "Miro Summary", "URL"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"FEAT-1", "A-2", "Only in Jira", "-", "-", "https://jira.example.com/browse/A-2"}, data.Rows[0])
	assert.Equal(t, []string{"-", "-", "-", "A-3", "", "-"}, data.Rows[1])
}

func TestMismatchedToTableData(t *testing.T) {
	data := MismatchedToTableData([]reconcile.MismatchRow{
		{Key: "A-1", URL: "u1", PlanPoints: ptr.Float64(8), TrackerPoints: ptr.Float64(3)},
		{Key: "A-2", URL: "u2", PlanPoints: ptr.Float64(0.5), TrackerPoints: nil},
	})

	assert.Equal(t, []string{"Key", "URL", "Miro Points", "Jira Points"}, data.Headers)
	assert.Equal(t, [][]string{
		{"A-1", "u1", "8", "3"},
		{"A-2", "u2", "0.5", "-"},
	}, data.Rows)
	assert.Len(t, data.ColumnAlignment, 4)
}

func TestEmptyTables(t *testing.T) {
	assert.Empty(t, MissingToTableData(nil).Rows)
	assert.Empty(t, MismatchedToTableData(nil).Rows)
}

func TestStoriesToTableData(t *testing.T) {
	report := []stories.Story{{
		Key:         "A-1",
		Points:      ptr.Float64(13),
		IssueType:   "Story",
		Updated:     "2024-03-04",
		Summary:     "Export",
		Sprints:     []string{"Sprint 7", "Sprint 8"},
		FixVersions: []string{},
	}}

	narrow := StoriesToTableData(report, false)
	assert.Len(t, narrow.Headers, 6)
	assert.Equal(t, []string{"A-1", "13", "Story", "-", "2024-03-04", "Export"}, narrow.Rows[0])

	wide := StoriesToTableData(report, true)
	assert.Len(t, wide.Headers, 11)
	assert.Equal(t, "Sprint 7, Sprint 8", wide.Rows[0][6])
	assert.Equal(t, "-", wide.Rows[0][9])
	assert.Len(t, wide.ColumnAlignment, len(wide.Headers))
}

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "-"},
		{ptr.Float64(0), "0"},
		{ptr.Float64(3), "3"},
		{ptr.Float64(2.5), "2.5"},
		{ptr.Float64(1000000), "1000000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPoints(tt.in))
		})
	}
}
