package reconcile

import (
	"fmt"
)

// Result is the outcome of a reconciliation.
type Result struct {
	// Missing lists stories found on only one side.
	Missing []MissingRow `json:"missing" yaml:"missing"`

	// Mismatched lists stories on both sides with different points.
	Mismatched []MismatchRow `json:"mismatched" yaml:"mismatched"`

	// Stats counts what was compared.
	Stats Statistics `json:"stats" yaml:"stats"`
}

// Statistics contains counts about a reconciliation.
type Statistics struct {
	TrackerStories int `json:"tracker_stories" yaml:"tracker_stories"`
	PlanRows       int `json:"plan_rows" yaml:"plan_rows"`
	Matched        int `json:"matched" yaml:"matched"`
	TrackerOnly    int `json:"tracker_only" yaml:"tracker_only"`
	PlanOnly       int `json:"plan_only" yaml:"plan_only"`
	Mismatched     int `json:"mismatched" yaml:"mismatched"`
}

// MissingRow is a story present on one side only. The fields of the other
// side are nil.
type MissingRow struct {
	ParentFeature  *string `json:"parent_feature" yaml:"parent feature"`
	TrackerKey     *string `json:"jira_key" yaml:"jira key"`
	TrackerSummary *string `json:"jira_summary" yaml:"jira summary"`
	PlanKey        *string `json:"miro_key" yaml:"miro key"`
	PlanSummary    *string `json:"miro_summary" yaml:"miro summary"`
	URL            *string `json:"url" yaml:"url"`
}

// Source reports which side the story was found on.
func (m MissingRow) Source() Source {
	if m.TrackerKey != nil {
		return SourceTracker
	}
	return SourcePlan
}

// Key returns the key of the story on whichever side it was found.
func (m MissingRow) Key() string {
	switch {
	case m.TrackerKey != nil:
		return *m.TrackerKey
	case m.PlanKey != nil:
		return *m.PlanKey
	}
	return ""
}

// MismatchRow is a story whose points differ between the two sides.
type MismatchRow struct {
	Key           string   `json:"key" yaml:"key"`
	URL           string   `json:"url" yaml:"url"`
	PlanPoints    *float64 `json:"miro_points" yaml:"miro points"`
	TrackerPoints *float64 `json:"jira_points" yaml:"jira points"`
}

// HasDiscrepancies returns true if any story is missing or mismatched.
func (r *Result) HasDiscrepancies() bool {
	return len(r.Missing) > 0 || len(r.Mismatched) > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Stats
	if !r.HasDiscrepancies() {
		return fmt.Sprintf("Jira and Miro agree on %d stories.", s.Matched)
	}
	return fmt.Sprintf("%d stories only in Jira, %d only in Miro, %d with different points (%d compared).",
		s.TrackerOnly, s.PlanOnly, s.Mismatched, s.Matched)
}
