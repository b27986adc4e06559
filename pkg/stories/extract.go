package stories

import (
	"strings"

	"github.com/agentstation/storycheck/internal/utils/ptr"
	"github.com/agentstation/storycheck/pkg/errors"
)

// Extractor maps raw issues onto Story records.
type Extractor struct {
	server string
	fields FieldMap
}

// NewExtractor creates an extractor for issues of the given Jira server.
// Empty entries of fields fall back to DefaultFieldMap.
func NewExtractor(server string, fields FieldMap) *Extractor {
	return &Extractor{
		server: strings.TrimRight(server, "/"),
		fields: fields.WithDefaults(),
	}
}

// Fields returns the custom field mapping in use.
func (e *Extractor) Fields() FieldMap {
	return e.fields
}

// URL returns the browse URL of an issue key.
func (e *Extractor) URL(key string) string {
	return e.server + "/browse/" + key
}

// Extract produces exactly one Story from one issue. Every error is a
// *errors.ResourceError naming the issue key and wrapping the cause.
func (e *Extractor) Extract(issue Issue) (Story, error) {
	if err := e.checkRequired(issue); err != nil {
		return Story{}, err
	}
	f := issue.Fields

	created, err := ReadableDate(f.Created)
	if err != nil {
		return Story{}, extractError(issue.Key, err)
	}
	updated, err := ReadableDate(f.Updated)
	if err != nil {
		return Story{}, extractError(issue.Key, err)
	}

	story := Story{
		Key:         issue.Key,
		Summary:     f.Summary,
		URL:         e.URL(issue.Key),
		IssueType:   f.IssueType.Name,
		IssueLinks:  outwardLinks(f.IssueLinks),
		Created:     created,
		Updated:     updated,
		Creator:     f.Creator.DisplayName,
		Reporter:    f.Reporter.DisplayName,
		Assignee:    displayName(f.Assignee),
		FixVersions: versionNames(f.FixVersions),
		Labels:      append([]string{}, f.Labels...),
		Description: f.Description,
	}

	var points float64
	if ok, err := f.DecodeCustom(e.fields.Points, &points); err != nil {
		return Story{}, extractError(issue.Key, err)
	} else if ok {
		story.Points = ptr.Float64(points)
	}

	var parent string
	if ok, err := f.DecodeCustom(e.fields.ParentFeature, &parent); err != nil {
		return Story{}, extractError(issue.Key, err)
	} else if ok {
		story.ParentFeature = ptr.String(parent)
	}

	if story.Sprints, err = e.sprints(f); err != nil {
		return Story{}, extractError(issue.Key, err)
	}

	if story.LeadingWorkGroup, err = optionValue(f, e.fields.LeadingWorkGroup); err != nil {
		return Story{}, extractError(issue.Key, err)
	}
	if story.Organisation, err = optionValue(f, e.fields.Organisation); err != nil {
		return Story{}, extractError(issue.Key, err)
	}
	if story.OrganisationCode, err = optionValue(f, e.fields.OrganisationCode); err != nil {
		return Story{}, extractError(issue.Key, err)
	}

	return story, nil
}

func (e *Extractor) checkRequired(issue Issue) error {
	f := issue.Fields
	missing := ""
	switch {
	case e.server == "":
		missing = "server"
	case issue.Key == "":
		missing = "key"
	case f.Summary == "":
		missing = "summary"
	case f.IssueType == nil || f.IssueType.Name == "":
		missing = "issuetype"
	case f.Creator == nil:
		missing = "creator"
	case f.Reporter == nil:
		missing = "reporter"
	}
	if missing == "" {
		return nil
	}

	err := errors.NewValidationError(missing, nil, "required field is missing")
	if issue.Key == "" {
		return err
	}
	return extractError(issue.Key, err)
}

// sprints decodes the sprint container. A missing or null container is
// an empty list.
func (e *Extractor) sprints(f Fields) ([]string, error) {
	var refs []SprintRef
	if _, err := f.DecodeCustom(e.fields.Sprints, &refs); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		name, err := ref.SprintName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func extractError(key string, err error) error {
	return errors.WrapResource("extract", "issue", key, err)
}

func displayName(u *User) *string {
	if u == nil {
		return nil
	}
	return ptr.String(u.DisplayName)
}

// optionValue reads the value of a single-select custom field.
func optionValue(f Fields, id string) (*string, error) {
	var opt Option
	ok, err := f.DecodeCustom(id, &opt)
	if err != nil || !ok {
		return nil, err
	}
	return opt.Value, nil
}

// outwardLinks keeps the links that point away from the issue.
func outwardLinks(links []IssueLink) []LinkedStory {
	out := make([]LinkedStory, 0, len(links))
	for _, link := range links {
		switch link.Direction() {
		case LinkOutward, LinkBoth:
			out = append(out, LinkedStory{
				Key:     link.OutwardIssue.Key,
				Summary: link.OutwardIssue.Fields.Summary,
			})
		}
	}
	return out
}

func versionNames(versions []Version) []string {
	names := make([]string, 0, len(versions))
	for _, v := range versions {
		names = append(names, v.Name)
	}
	return names
}
