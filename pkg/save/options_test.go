package save

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{" yml ", FormatYAML, false},
		{"csv", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("out/features.json", FormatYAML))
	assert.Equal(t, FormatYAML, FormatFromPath("features.yml", FormatJSON))
	assert.Equal(t, FormatYAML, FormatFromPath("features", FormatYAML))
	assert.Equal(t, ".yaml", FormatYAML.Extension())
	assert.Equal(t, ".json", FormatJSON.Extension())
}

func TestApply(t *testing.T) {
	var buf bytes.Buffer
	opts := Defaults()
	got := opts.Apply(WithPath("features.yaml"), WithFormat(FormatYAML), WithWriter(&buf))

	assert.Equal(t, "features.yaml", got.Path())
	assert.Equal(t, FormatYAML, got.Format())
	assert.Same(t, &buf, got.Writer())
	assert.False(t, Format(9).IsValid())
	assert.Equal(t, "unknown", Format(9).String())
}
