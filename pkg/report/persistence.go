package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/storycheck/pkg/constants"
	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/save"
)

// Save writes the report. YAML is the default format; a path or a writer
// must be given.
func (r Report) Save(opts ...save.Option) error {
	options := save.Defaults()
	options.Apply(save.WithFormat(save.FormatYAML))
	options.Apply(opts...)

	if !options.Format().IsValid() {
		return errors.NewValidationError("format", options.Format(), "unsupported report format")
	}

	data, err := r.Marshal(options.Format())
	if err != nil {
		return err
	}

	if w := options.Writer(); w != nil {
		if _, err := w.Write(data); err != nil {
			return errors.WrapIO("write", "report", err)
		}
		return nil
	}

	path := options.Path()
	if path == "" {
		return errors.NewValidationError("path", path, "a path or writer is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Marshal encodes the report in the given format. Stories keep their field
// order and each YAML entry is headed by its summary.
func (r Report) Marshal(format save.Format) ([]byte, error) {
	if format == save.FormatJSON {
		data, err := json.MarshalIndent(r.orEmpty(), "", "  ")
		if err != nil {
			return nil, errors.WrapParse("json", "report", err)
		}
		return append(data, '\n'), nil
	}

	commentMap := yaml.CommentMap{}
	for i, s := range r {
		commentMap[fmt.Sprintf("$[%d]", i)] = []*yaml.Comment{
			yaml.HeadComment(" " + oneLine(s.Summary)),
		}
	}
	data, err := yaml.MarshalWithOptions(r.orEmpty(),
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.WithComment(commentMap),
		yaml.CustomMarshaler[string](marshalScalar),
	)
	if err != nil {
		return nil, errors.WrapParse("yaml", "report", err)
	}
	return addBlankLinesBetweenStories(data), nil
}

// LoadFile reads a report saved with Save. The format follows the file
// extension, defaulting to YAML.
func LoadFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	r, err := Unmarshal(data, save.FormatFromPath(path, save.FormatYAML))
	if err != nil {
		return nil, errors.WrapResource("load", "report", path, err)
	}
	return r, nil
}

// Load decodes a YAML report from r.
func Load(r io.Reader) (Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "report", err)
	}
	return Unmarshal(data, save.FormatYAML)
}

// Unmarshal decodes a report and checks that its keys are unique.
func Unmarshal(data []byte, format save.Format) (Report, error) {
	var r Report
	switch format {
	case save.FormatJSON:
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, errors.WrapParse("json", "report", err)
		}
	default:
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, errors.WrapParse("yaml", "report", err)
		}
	}

	seen := make(map[string]bool, len(r))
	for _, s := range r {
		if s.Key == "" {
			return nil, errors.NewValidationError("key", s.Key, "story without key")
		}
		if seen[s.Key] {
			return nil, errors.NewValidationError("key", s.Key, "duplicate story key")
		}
		seen[s.Key] = true
	}
	return r.orEmpty(), nil
}

func (r Report) orEmpty() Report {
	if r == nil {
		return Report{}
	}
	return r
}

// marshalScalar double-quotes strings that hold control characters. Plain
// and block scalars drop tabs and mangle CR line breaks or trailing newlines
// on reload.
func marshalScalar(s string) ([]byte, error) {
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return []byte(strconv.Quote(s)), nil
	}
	return yaml.Marshal(s)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// addBlankLinesBetweenStories separates entries after the first one.
func addBlankLinesBetweenStories(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	out := make([][]byte, 0, len(lines))
	for i, line := range lines {
		if i > 0 && bytes.HasPrefix(line, []byte("#")) {
			out = append(out, nil)
		}
		out = append(out, line)
	}
	return bytes.Join(out, []byte("\n"))
}
