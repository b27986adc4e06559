package stories

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/agentstation/storycheck/pkg/errors"
)

// Issue is one issue as returned by the Jira search endpoint.
type Issue struct {
	ID     string `json:"id,omitempty"`
	Key    string `json:"key"`
	Self   string `json:"self,omitempty"`
	Fields Fields `json:"fields"`
}

// Fields holds the issue fields storycheck reads. Custom fields are kept
// raw and decoded on demand, since their ids differ between Jira instances.
type Fields struct {
	Summary     string      `json:"summary"`
	IssueType   *IssueType  `json:"issuetype"`
	Created     string      `json:"created"`
	Updated     string      `json:"updated"`
	Creator     *User       `json:"creator"`
	Reporter    *User       `json:"reporter"`
	Assignee    *User       `json:"assignee"`
	IssueLinks  []IssueLink `json:"issuelinks"`
	FixVersions []Version   `json:"fixVersions"`
	Labels      []string    `json:"labels"`
	Description *string     `json:"description"`

	Custom map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the standard fields and collects every
// customfield_* entry into Custom.
func (f *Fields) UnmarshalJSON(data []byte) error {
	type plain Fields
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	p.Custom = make(map[string]json.RawMessage)
	for name, raw := range all {
		if strings.HasPrefix(name, "customfield_") {
			p.Custom[name] = raw
		}
	}

	*f = Fields(p)
	return nil
}

// DecodeCustom decodes custom field id into v. It reports false without
// touching v when the field is missing or null.
func (f Fields) DecodeCustom(id string, v any) (bool, error) {
	raw, ok := f.Custom[id]
	if !ok || isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.NewParseError("json", id, err.Error(), err)
	}
	return true, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// IssueType is the issue type reference.
type IssueType struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Subtask bool   `json:"subtask,omitempty"`
}

// User is a Jira user reference.
type User struct {
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Version is a fix version reference.
type Version struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Released bool   `json:"released,omitempty"`
}

// Option is the value of a single-select custom field. Value is nil when
// the option object has no value attribute at all.
type Option struct {
	ID    string  `json:"id,omitempty"`
	Value *string `json:"value"`
}

// LinkType describes the relationship of an issue link.
type LinkType struct {
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// LinkedIssue is the abbreviated issue embedded in an issue link.
type LinkedIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// IssueLink is a typed link between two issues. Jira populates
// OutwardIssue when this issue points at the other one and InwardIssue
// when it is pointed at.
type IssueLink struct {
	ID           string       `json:"id,omitempty"`
	Type         LinkType     `json:"type"`
	OutwardIssue *LinkedIssue `json:"outwardIssue,omitempty"`
	InwardIssue  *LinkedIssue `json:"inwardIssue,omitempty"`
}

// LinkDirection tells which side of an issue link is populated.
type LinkDirection int

const (
	// LinkNone means neither side is populated.
	LinkNone LinkDirection = iota
	// LinkOutward means only the outward issue is populated.
	LinkOutward
	// LinkInward means only the inward issue is populated.
	LinkInward
	// LinkBoth means both sides are populated.
	LinkBoth
)

// String returns the direction name.
func (d LinkDirection) String() string {
	switch d {
	case LinkOutward:
		return "outward"
	case LinkInward:
		return "inward"
	case LinkBoth:
		return "both"
	default:
		return "none"
	}
}

// Direction reports which side of the link is populated.
func (l IssueLink) Direction() LinkDirection {
	switch {
	case l.OutwardIssue != nil && l.InwardIssue != nil:
		return LinkBoth
	case l.OutwardIssue != nil:
		return LinkOutward
	case l.InwardIssue != nil:
		return LinkInward
	default:
		return LinkNone
	}
}

// SprintRef is one entry of the sprint custom field. Older Jira servers
// send a serialized parameter string, newer ones send an object.
type SprintRef struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	State   string `json:"state,omitempty"`
	Encoded string `json:"-"`
}

// UnmarshalJSON accepts either the serialized string or the object form.
func (s *SprintRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		*s = SprintRef{}
		return json.Unmarshal(trimmed, &s.Encoded)
	}

	type plain SprintRef
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*s = SprintRef(p)
	return nil
}

// SprintName returns the sprint name, decoding the serialized form when
// needed.
func (s SprintRef) SprintName() (string, error) {
	if s.Encoded != "" {
		return ReadableSprint(s.Encoded)
	}
	if s.Name == "" {
		return "", &errors.MalformedSprintError{Value: string(mustJSON(s))}
	}
	return s.Name, nil
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
