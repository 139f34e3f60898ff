// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package presentation

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableCSSClass is the class attribute of every rendered HTML table.
const TableCSSClass = "custom-table"

// Format is a table output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat resolves a format name. Empty means JSON; "md" is accepted
// for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/json"
	}
}

// Column describes one table column. Numeric columns are right-aligned.
type Column struct {
	Name    string
	Numeric bool
}

// Table is a rectangular grid of preformatted cells. An empty string is a
// missing value.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Render writes the table in the requested text format.
func (t Table) Render(f Format) (string, error) {
	w := t.writer()
	switch f {
	case FormatHTML:
		return w.RenderHTML(), nil
	case FormatCSV:
		return w.RenderCSV(), nil
	case FormatMarkdown:
		return w.RenderMarkdown(), nil
	default:
		return "", fmt.Errorf("format %q is not a table format", f)
	}
}

func (t Table) writer() table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleDefault)
	style := w.Style()
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	style.HTML = table.HTMLOptions{
		CSSClass:    TableCSSClass,
		EmptyColumn: "",
		EscapeText:  true,
		Newline:     "<br/>",
	}

	header := make(table.Row, len(t.Columns))
	configs := make([]table.ColumnConfig, 0, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
		if c.Numeric {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	w.AppendHeader(header)
	w.SetColumnConfigs(configs)

	for _, r := range t.Rows {
		row := make(table.Row, len(t.Columns))
		for i := range row {
			if i < len(r) {
				row[i] = r[i]
			} else {
				row[i] = ""
			}
		}
		w.AppendRow(row)
	}
	return w
}
