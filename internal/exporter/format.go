package exporter

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"bundesrat/pkg/contracts/domain"
)

// parseNumber parses a finite integer or decimal number
func parseNumber(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isNumber reports whether a cell holds an integer or decimal number
func isNumber(cell string) bool {
	_, ok := parseNumber(cell)
	return ok
}

// numericColumns marks the columns whose non-empty cells are all numbers.
// Columns without any value are not numeric.
func numericColumns(t domain.Table) []bool {
	numeric := make([]bool, t.Width())
	for c := range numeric {
		seen := false
		numeric[c] = true
		for _, row := range t.Rows {
			if c >= len(row) || row[c] == "" {
				continue
			}
			seen = true
			if !isNumber(row[c]) {
				numeric[c] = false
				break
			}
		}
		if !seen {
			numeric[c] = false
		}
	}
	return numeric
}

// cellAt returns the cell or "" for short rows
func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func displayWidth(s string) int {
	return utf8.RuneCountInString(s)
}

func padLeft(s string, width int) string {
	if n := width - displayWidth(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := width - displayWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

var (
	markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")
	typstEscaper    = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
)
