package report

import (
	"fmt"
	"strings"

	"github.com/agentstation/storycheck/pkg/constants"
	"github.com/agentstation/storycheck/pkg/errors"
)

// Query selects the stories linked to a set of features.
type Query struct {
	// Features are the parent feature keys.
	Features []string

	// FeatureField is the numeric id of the feature link custom field.
	FeatureField int

	// ExcludeStatus drops stories in this status.
	ExcludeStatus string
}

// NewQuery creates a query for the given features with the default feature
// link field and excluded status.
func NewQuery(features ...string) Query {
	return Query{
		Features:      features,
		FeatureField:  constants.FeatureLinkFieldID,
		ExcludeStatus: constants.DefaultExcludedStatus,
	}
}

// Validate checks that the query can be turned into JQL.
func (q Query) Validate() error {
	if len(q.Features) == 0 {
		return errors.NewValidationError("features", q.Features, "at least one feature is required")
	}
	for _, f := range q.Features {
		if strings.TrimSpace(f) == "" {
			return errors.NewValidationError("features", q.Features, "feature keys must not be blank")
		}
	}
	if q.FeatureField <= 0 {
		return errors.NewValidationError("feature_field", q.FeatureField, "must be a positive custom field id")
	}
	return nil
}

// JQL renders the query, for example
//
//	cf[10702] in ("F-1","F-2") and status != Done ORDER BY updated DESC
func (q Query) JQL() string {
	quoted := make([]string, len(q.Features))
	for i, f := range q.Features {
		quoted[i] = quote(f)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "cf[%d] in (%s)", q.FeatureField, strings.Join(quoted, ","))
	if q.ExcludeStatus != "" {
		fmt.Fprintf(&b, " and status != %s", statusLiteral(q.ExcludeStatus))
	}
	b.WriteString(" ORDER BY updated DESC")
	return b.String()
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// statusLiteral leaves single-word statuses bare and quotes the rest.
func statusLiteral(s string) string {
	if strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_')
	}) >= 0 {
		return quote(s)
	}
	return s
}
