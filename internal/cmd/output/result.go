package output

import (
	"fmt"
	"io"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/storycheck/internal/cmd/table"
	"github.com/agentstation/storycheck/pkg/reconcile"
	"github.com/agentstation/storycheck/pkg/stories"
)

// Console headings of the two result tables.
const (
	HeadingMissing    = "Stories that are missing in Jira or Miro:"
	HeadingMismatched = "Stories that have different points in Jira and Miro:"
)

// WriteResult prints a reconciliation result. Table formats print the
// missing stories first and the mismatched points second, each under its
// heading and capped at maxRows. Markdown does the same with level two
// headings. Other formats encode the whole result.
func WriteResult(w io.Writer, result *reconcile.Result, format Format, maxRows int) error {
	if format == FormatMarkdown {
		f := &MarkdownFormatter{MaxRows: maxRows}
		doc := md.NewMarkdown(w)
		f.section(doc, HeadingMissing, table.MissingToTableData(result.Missing))
		f.section(doc, HeadingMismatched, table.MismatchedToTableData(result.Mismatched))
		return doc.Build()
	}
	if !format.IsTable() {
		return NewFormatter(format).Format(w, result)
	}

	formatter := &TableFormatter{Wide: format == FormatWide, MaxRows: maxRows}
	sections := []struct {
		heading string
		data    Data
	}{
		{HeadingMissing, table.MissingToTableData(result.Missing)},
		{HeadingMismatched, table.MismatchedToTableData(result.Mismatched)},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintln(w, s.heading); err != nil {
			return err
		}
		if err := formatter.Format(w, s.data); err != nil {
			return err
		}
	}
	return nil
}

// WriteStories prints report stories.
func WriteStories(w io.Writer, report []stories.Story, format Format, maxRows int) error {
	if format == FormatMarkdown {
		f := &MarkdownFormatter{MaxRows: maxRows}
		return f.Format(w, table.StoriesToTableData(report, false))
	}
	if !format.IsTable() {
		return NewFormatter(format).Format(w, report)
	}
	formatter := &TableFormatter{Wide: format == FormatWide, MaxRows: maxRows}
	return formatter.Format(w, table.StoriesToTableData(report, formatter.Wide))
}
