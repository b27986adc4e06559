package stories

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/storycheck/pkg/constants"
)

// FieldMap names the Jira custom fields that carry story attributes.
type FieldMap struct {
	Points           string `mapstructure:"points" yaml:"points"`
	ParentFeature    string `mapstructure:"parent_feature" yaml:"parent_feature"`
	Sprints          string `mapstructure:"sprints" yaml:"sprints"`
	LeadingWorkGroup string `mapstructure:"leading_work_group" yaml:"leading_work_group"`
	Organisation     string `mapstructure:"organisation" yaml:"organisation"`
	OrganisationCode string `mapstructure:"organisation_code" yaml:"organisation_code"`
}

// DefaultFieldMap returns the custom field ids used when none are configured.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Points:           "customfield_10708",
		ParentFeature:    CustomFieldName(constants.FeatureLinkFieldID),
		Sprints:          "customfield_10701",
		LeadingWorkGroup: "customfield_14400",
		Organisation:     "customfield_15100",
		OrganisationCode: "customfield_12803",
	}
}

// WithDefaults fills empty entries from DefaultFieldMap.
func (m FieldMap) WithDefaults() FieldMap {
	d := DefaultFieldMap()
	if m.Points == "" {
		m.Points = d.Points
	}
	if m.ParentFeature == "" {
		m.ParentFeature = d.ParentFeature
	}
	if m.Sprints == "" {
		m.Sprints = d.Sprints
	}
	if m.LeadingWorkGroup == "" {
		m.LeadingWorkGroup = d.LeadingWorkGroup
	}
	if m.Organisation == "" {
		m.Organisation = d.Organisation
	}
	if m.OrganisationCode == "" {
		m.OrganisationCode = d.OrganisationCode
	}
	return m
}

// CustomFieldName returns the JSON field name for a numeric custom field id.
func CustomFieldName(id int) string {
	return fmt.Sprintf("customfield_%d", id)
}

// CustomFieldID parses the numeric id out of a customfield_NNNNN name.
func CustomFieldID(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, "customfield_")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(digits)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
