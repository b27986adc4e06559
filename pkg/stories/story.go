// Package stories turns raw Jira issues into flat Story records.
//
// A Story is a pure projection of one issue at fetch time. Optional nested
// attributes (assignee, single-select custom fields) are nil when any link
// of the chain is missing, while required fields fail the extraction with
// an error that names the issue and the offending value.
package stories

// Story is the normalized record compared against the planning table.
// Field order is the order of the report dump.
type Story struct {
	Key              string        `json:"key" yaml:"key"`
	Points           *float64      `json:"points" yaml:"points"`
	Summary          string        `json:"summary" yaml:"summary"`
	URL              string        `json:"url" yaml:"url"`
	IssueType        string        `json:"issue_type" yaml:"issue type"`
	ParentFeature    *string       `json:"parent_feature" yaml:"parent feature"`
	IssueLinks       []LinkedStory `json:"issue_links" yaml:"issue links"`
	Created          string        `json:"created" yaml:"created"`
	Updated          string        `json:"updated" yaml:"updated"`
	Sprints          []string      `json:"sprints" yaml:"sprints"`
	Creator          string        `json:"creator" yaml:"creator"`
	Reporter         string        `json:"reporter" yaml:"reporter"`
	Assignee         *string       `json:"assignee" yaml:"assignee"`
	LeadingWorkGroup *string       `json:"leading_work_group" yaml:"leading work group"`
	Organisation     *string       `json:"organisation" yaml:"organisation"`
	OrganisationCode *string       `json:"organisation_code" yaml:"organisation code"`
	FixVersions      []string      `json:"fix_versions" yaml:"fix versions"`
	Labels           []string      `json:"labels" yaml:"labels"`
	Description      *string       `json:"description" yaml:"description"`
}

// LinkedStory is an outward link target.
type LinkedStory struct {
	Key     string `json:"key" yaml:"key"`
	Summary string `json:"summary" yaml:"summary"`
}
