package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table renders rows of records under a bold header with computed
// column widths. Cells longer than the header stretch the column;
// missing trailing cells render empty.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a table with the given column headers.
func NewTable(w io.Writer, headers []string, noColor bool) *Table {
	return &Table{
		writer:  w,
		headers: headers,
		rows:    make([][]string, 0),
		noColor: noColor,
	}
}

// AddRow appends one row of cells, positionally matched to headers.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table: header, separator, then rows, columns
// separated by a two-space gutter.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	bold := color.New(color.Bold)
	if t.noColor {
		bold.DisableColor()
	}
	for i, header := range t.headers {
		bold.Fprint(t.writer, padRight(header, widths[i]))
		if i < len(t.headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for i, width := range widths {
		fmt.Fprint(t.writer, strings.Repeat("-", width))
		if i < len(widths)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			fmt.Fprint(t.writer, padRight(cell, widths[i]))
			if i < len(t.headers)-1 {
				fmt.Fprint(t.writer, "  ")
			}
		}
		fmt.Fprintln(t.writer)
	}
}

// FieldList renders key: value lines with aligned keys, used by the
// show command for a single record.
type FieldList struct {
	writer  io.Writer
	rows    []fieldRow
	noColor bool
}

type fieldRow struct {
	key   string
	value string
}

// NewFieldList creates an empty field list.
func NewFieldList(w io.Writer, noColor bool) *FieldList {
	return &FieldList{
		writer:  w,
		rows:    make([]fieldRow, 0),
		noColor: noColor,
	}
}

// AddField appends one key/value pair.
func (f *FieldList) AddField(key, value string) {
	f.rows = append(f.rows, fieldRow{key: key, value: value})
}

// Render writes the pairs with keys padded to a shared width.
func (f *FieldList) Render() {
	if len(f.rows) == 0 {
		return
	}

	maxKeyWidth := 0
	for _, row := range f.rows {
		if w := utf8.RuneCountInString(row.key); w > maxKeyWidth {
			maxKeyWidth = w
		}
	}

	cyan := color.New(color.FgCyan)
	if f.noColor {
		cyan.DisableColor()
	}
	for _, row := range f.rows {
		cyan.Fprint(f.writer, padRight(row.key+":", maxKeyWidth+1))
		fmt.Fprintf(f.writer, " %s\n", row.value)
	}
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
