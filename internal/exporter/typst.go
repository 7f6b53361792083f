package exporter

import (
	"strings"

	"bundesrat/pkg/contracts/domain"
)

// RenderTypst renders a table as a Typst #table call with bold headers and
// one source line per data row.
func RenderTypst(t domain.Table) string {
	var b strings.Builder
	b.WriteString("#table(\n")
	b.WriteString("columns: (")
	for range t.Columns {
		b.WriteString("auto, ")
	}
	b.WriteString("), \n")
	b.WriteString("inset: 10pt,\n")
	b.WriteString("align: horizon,\n")
	for _, c := range t.Columns {
		b.WriteString("[*" + typstEscaper.Replace(c) + "*], ")
	}
	for _, row := range t.Rows {
		for i := range t.Columns {
			b.WriteString("[" + typstEscaper.Replace(cellAt(row, i)) + "], ")
		}
		b.WriteString("\n")
	}
	b.WriteString(")\n")
	return b.String()
}
