// Package reconcile compares the stories fetched from the issue tracker with
// the rows of the planning table.
//
// Reconcile is a pure function of its two inputs: it reads both sequences,
// never mutates them, and returns the same Result when run twice.
package reconcile

import (
	"github.com/agentstation/storycheck/pkg/planning"
	"github.com/agentstation/storycheck/pkg/stories"
)

// Source names the side a story was found on.
type Source string

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// Sources of a missing story.
const (
	SourceTracker Source = "Jira"
	SourcePlan    Source = "Miro"
)

// Reconcile reports the stories present on only one side and the stories
// whose points differ. Keys are compared as exact strings.
//
// Every plan row takes part on its own, so a key listed twice on the board
// can produce two mismatch rows. Output follows report order, then plan order.
func Reconcile(report []stories.Story, plan []planning.Row) *Result {
	byKey := make(map[string]*stories.Story, len(report))
	for i := range report {
		if _, dup := byKey[report[i].Key]; !dup {
			byKey[report[i].Key] = &report[i]
		}
	}
	planned := make(map[string]bool, len(plan))
	for _, row := range plan {
		planned[row.Key] = true
	}

	result := &Result{
		Missing:    make([]MissingRow, 0),
		Mismatched: make([]MismatchRow, 0),
	}

	for _, story := range report {
		if planned[story.Key] {
			continue
		}
		result.Missing = append(result.Missing, MissingRow{
			ParentFeature:  copyString(story.ParentFeature),
			TrackerKey:     stringPtr(story.Key),
			TrackerSummary: stringPtr(story.Summary),
			URL:            stringPtr(story.URL),
		})
		result.Stats.TrackerOnly++
	}

	for _, row := range plan {
		story, ok := byKey[row.Key]
		if !ok {
			result.Missing = append(result.Missing, MissingRow{
				PlanKey:     stringPtr(row.Key),
				PlanSummary: stringPtr(row.Summary),
			})
			result.Stats.PlanOnly++
			continue
		}

		result.Stats.Matched++
		if PointsEqual(row.Points, story.Points) {
			continue
		}
		result.Mismatched = append(result.Mismatched, MismatchRow{
			Key:           row.Key,
			URL:           story.URL,
			PlanPoints:    copyFloat(row.Points),
			TrackerPoints: copyFloat(story.Points),
		})
	}

	result.Stats.TrackerStories = len(report)
	result.Stats.PlanRows = len(plan)
	result.Stats.Mismatched = len(result.Mismatched)
	return result
}

// PointsEqual compares two estimates. Two absent values are equal, an absent
// value never equals a number, and numbers compare by value.
func PointsEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func stringPtr(s string) *string {
	return &s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return stringPtr(*s)
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
