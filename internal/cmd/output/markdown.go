package output

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"
)

// MarkdownFormatter outputs GitHub flavoured Markdown tables, for pasting
// the result into a ticket or wiki page.
type MarkdownFormatter struct {
	// MaxRows caps the rendered rows. Zero renders everything.
	MaxRows int
}

// Format outputs data as a Markdown table. Data that cannot be shown as a
// table falls back to JSON.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(md.NewMarkdown(w), v).Build()
	case *Data:
		return f.formatTable(md.NewMarkdown(w), *v).Build()
	default:
		if tableData := convertToTableData(data); tableData != nil {
			return f.formatTable(md.NewMarkdown(w), *tableData).Build()
		}
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}
}

// section writes a level two heading followed by the table.
func (f *MarkdownFormatter) section(doc *md.Markdown, heading string, data Data) *md.Markdown {
	doc.H2(heading).LF()
	return f.formatTable(doc, data)
}

func (f *MarkdownFormatter) formatTable(doc *md.Markdown, data Data) *md.Markdown {
	data, hidden := Truncate(data, f.MaxRows)

	if len(data.Rows) == 0 {
		doc.PlainText(md.Italic("None")).LF()
		return doc
	}

	rows := make([][]string, len(data.Rows))
	for i, row := range data.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = escapeCell(cell)
		}
		rows[i] = cells
	}
	doc.Table(md.TableSet{
		Header: data.Headers,
		Rows:   rows,
	}).LF()

	if hidden > 0 {
		doc.PlainText(md.Italic(fmt.Sprintf("%d more rows not shown", hidden))).LF()
	}
	return doc
}

// escapeCell keeps pipes and line breaks from splitting a table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
