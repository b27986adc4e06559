package stories

import (
	"regexp"
	"strings"
	"time"

	"github.com/agentstation/storycheck/pkg/errors"
)

const (
	timestampLayout = "2006-01-02T15:04:05.999999-0700"
	dateLayout      = "2006-01-02"
)

// timestampPattern pins the accepted shape; time.Parse alone would also
// take a missing or overlong fraction.
var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{1,6}[+-]\d{4}$`)

// ReadableDate converts a Jira timestamp such as
// 2024-03-01T10:15:30.000+0000 into its calendar date, 2024-03-01.
// The date is taken in the timestamp's own offset.
func ReadableDate(timestamp string) (string, error) {
	if !timestampPattern.MatchString(timestamp) {
		return "", &errors.MalformedDateError{Value: timestamp}
	}
	t, err := time.Parse(timestampLayout, timestamp)
	if err != nil {
		return "", &errors.MalformedDateError{Value: timestamp}
	}
	return t.Format(dateLayout), nil
}

// ReadableSprint extracts the name parameter from a serialized sprint
// reference such as
//
//	com.atlassian.greenhopper.service.sprint.Sprint@5f[id=42,rapidViewId=1,state=ACTIVE,name=Sprint 7,...]
//
// The value is returned verbatim.
func ReadableSprint(encoded string) (string, error) {
	for _, param := range strings.Split(encoded, ",") {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		if i := strings.LastIndexByte(key, '['); i >= 0 {
			key = key[i+1:]
		}
		if key == "name" {
			return value, nil
		}
	}
	return "", &errors.MalformedSprintError{Value: encoded}
}
