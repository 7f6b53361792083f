package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Column(t *testing.T) {
	table := Table{
		Name:    "party",
		Columns: []string{"Party", "count"},
		Rows:    [][]string{{"FDP", "4"}, {"SP"}},
	}

	assert.Equal(t, 2, table.Width())
	assert.Equal(t, 2, table.Height())

	counts, err := table.Column("count")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", ""}, counts)

	_, err = table.Column("Kanton")
	assert.Error(t, err)
}
