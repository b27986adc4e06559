package stories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/storycheck/pkg/errors"
)

func TestReadableDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"six digit fraction", "2024-03-01T10:15:30.000000+0000", "2024-03-01"},
		{"jira millis", "2024-03-01T10:15:30.000+0000", "2024-03-01"},
		{"single digit fraction", "2024-02-20T08:00:00.5-0500", "2024-02-20"},
		{"date follows offset", "2024-03-04T23:59:59.123456+0100", "2024-03-04"},
		{"leap day", "2024-02-29T00:00:00.000+0000", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadableDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadableDateMalformed(t *testing.T) {
	inputs := []string{
		"",
		"2024-03-01",
		"2024-03-01T10:15:30+0000",
		"2024-03-01T10:15:30.000Z",
		"2024-03-01T10:15:30.0000000+0000",
		"2024-03-01T10:15:30.000+00:00",
		"2024-02-30T10:15:30.000+0000",
		"01/03/2024 10:15",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ReadableDate(input)
			require.Error(t, err)

			var dateErr *errors.MalformedDateError
			require.ErrorAs(t, err, &dateErr)
			assert.Equal(t, input, dateErr.Value)
			assert.True(t, errors.IsMalformed(err))
		})
	}
}

func TestReadableSprint(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    string
	}{
		{"plain parameters", "id=42,rapidViewId=1,state=active,name=Sprint 7,startDate=2024-02-26", "Sprint 7"},
		{"greenhopper prefix", "com.atlassian.greenhopper.service.sprint.Sprint@5f1e[id=42,name=PI 3.2,sequence=42]", "PI 3.2"},
		{"name first after bracket", "Sprint@1[name=First,id=1]", "First"},
		{"value kept verbatim", "id=1,name= spaced =x", " spaced =x"},
		{"first name wins", "name=A,name=B", "A"},
		{"empty name", "id=1,name=,state=closed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadableSprint(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadableSprintMalformed(t *testing.T) {
	inputs := []string{
		"",
		"id=42,rapidViewId=1,state=active",
		"id=42,sprintname=Sprint 7",
		"id=42, name=Sprint 7",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ReadableSprint(input)

			var sprintErr *errors.MalformedSprintError
			require.ErrorAs(t, err, &sprintErr)
			assert.Equal(t, input, sprintErr.Value)
		})
	}
}
