package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bundesrat/pkg/contracts/domain"
)

// formatFloat formats a value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// formatOptionalDate renders a missing date as an empty cell
func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// formatYears renders a year list like "[1848, 1849, 1850]"
func formatYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
