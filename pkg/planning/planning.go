// Package planning loads the planning table exported from the Miro board.
//
// The table is a CSV file with a header row. Columns are located by header
// name, so their order is free and extra columns are ignored.
package planning

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/agentstation/storycheck/pkg/errors"
)

// Column names of the planning table.
const (
	ColumnKey     = "key"
	ColumnSummary = "summary"
	ColumnPoints  = "points"
)

const bom = "\ufeff"

// Row is one planned story.
type Row struct {
	Key     string   `json:"key" yaml:"key"`
	Summary string   `json:"summary" yaml:"summary"`
	Points  *float64 `json:"points" yaml:"points"`
}

// LoadFile reads the planning table at path.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return load(f, path)
}

// Load reads a planning table from r.
func Load(r io.Reader) ([]Row, error) {
	return load(r, "")
}

func load(r io.Reader, path string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &errors.MalformedTableError{Path: path, Message: "missing header row"}
	}
	if err != nil {
		return nil, tableError(path, err)
	}

	cols, err := locateColumns(header, path)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, tableError(path, err)
		}
		line, _ := reader.FieldPos(0)

		points, err := parsePoints(record[cols.points])
		if err != nil {
			return nil, &errors.MalformedTableError{
				Path:    path,
				Line:    line,
				Column:  ColumnPoints,
				Value:   record[cols.points],
				Message: "not a number",
				Err:     err,
			}
		}
		rows = append(rows, Row{
			Key:     record[cols.key],
			Summary: record[cols.summary],
			Points:  points,
		})
	}
	return rows, nil
}

type columns struct {
	key, summary, points int
}

func locateColumns(header []string, path string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, bom)
		}
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var cols columns
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{ColumnKey, &cols.key},
		{ColumnSummary, &cols.summary},
		{ColumnPoints, &cols.points},
	} {
		i, ok := index[c.name]
		if !ok {
			return columns{}, errors.NewMissingColumnError(path, c.name)
		}
		*c.dst = i
	}
	return cols, nil
}

// parsePoints reads a points cell. A blank cell means not estimated.
func parsePoints(cell string) (*float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("not a finite number")
	}
	return &v, nil
}

// tableError converts csv reader failures into MalformedTableError and
// leaves read failures as IOError.
func tableError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &errors.MalformedTableError{
			Path:    path,
			Line:    parseErr.Line,
			Message: parseErr.Err.Error(),
			Err:     err,
		}
	}
	return errors.WrapIO("read", path, err)
}
