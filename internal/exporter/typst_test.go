package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bundesrat/pkg/contracts/domain"
)

func TestRenderTypst(t *testing.T) {
	tests := []struct {
		name     string
		table    domain.Table
		expected string
	}{
		{
			name: "two columns",
			table: domain.Table{
				Columns: []string{"A", "B"},
				Rows:    [][]string{{"a1", "b1"}, {"a2", "b2"}},
			},
			expected: "#table(\n" +
				"columns: (auto, auto, ), \n" +
				"inset: 10pt,\n" +
				"align: horizon,\n" +
				"[*A*], [*B*], [a1], [b1], \n" +
				"[a2], [b2], \n" +
				")\n",
		},
		{
			name: "brackets escaped and nulls empty",
			table: domain.Table{
				Columns: []string{"AktiveJahre", "DateOfDeath"},
				Rows:    [][]string{{"[1848, 1849]", ""}},
			},
			expected: "#table(\n" +
				"columns: (auto, auto, ), \n" +
				"inset: 10pt,\n" +
				"align: horizon,\n" +
				`[*AktiveJahre*], [*DateOfDeath*], [\[1848, 1849\]], [], ` + "\n" +
				")\n",
		},
		{
			name: "header only",
			table: domain.Table{
				Columns: []string{"Name"},
			},
			expected: "#table(\n" +
				"columns: (auto, ), \n" +
				"inset: 10pt,\n" +
				"align: horizon,\n" +
				"[*Name*], )\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderTypst(tt.table))
		})
	}
}
