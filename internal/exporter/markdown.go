package exporter

import (
	"strings"

	"bundesrat/pkg/contracts/domain"
)

// Header cells get at least this much padding in the column width
const markdownMinPadding = 2

// RenderMarkdown renders a table as a pipe table. Numeric columns are
// right-aligned, all others left-aligned, and every cell is padded to the
// column width.
func RenderMarkdown(t domain.Table) string {
	numeric := numericColumns(t)

	headers := make([]string, t.Width())
	widths := make([]int, t.Width())
	for i, h := range t.Columns {
		headers[i] = markdownEscaper.Replace(h)
		widths[i] = displayWidth(headers[i]) + markdownMinPadding
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		rows[r] = make([]string, t.Width())
		for i := range t.Columns {
			cell := markdownEscaper.Replace(cellAt(row, i))
			rows[r][i] = cell
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeLine := func(cells []string) {
		b.WriteString("|")
		for i, cell := range cells {
			b.WriteString(" ")
			if numeric[i] {
				b.WriteString(padLeft(cell, widths[i]))
			} else {
				b.WriteString(padRight(cell, widths[i]))
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeLine(headers)

	b.WriteString("|")
	for i, w := range widths {
		if numeric[i] {
			b.WriteString(strings.Repeat("-", w+1) + ":")
		} else {
			b.WriteString(":" + strings.Repeat("-", w+1))
		}
		b.WriteString("|")
	}
	b.WriteString("\n")

	for _, row := range rows {
		writeLine(row)
	}
	return b.String()
}
