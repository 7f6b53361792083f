package domain

import "fmt"

// Table is the rendered result of one analysis. Cells are already formatted;
// null values are represented by the empty string.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Width returns the number of columns
func (t Table) Width() int {
	return len(t.Columns)
}

// Height returns the number of rows
func (t Table) Height() int {
	return len(t.Rows)
}

// Column returns all cells of the named column
func (t Table) Column(name string) ([]string, error) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in table %s", name, t.Name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

// AgeByYear aggregates the ages of all members in office on January 1st of Year
type AgeByYear struct {
	Year    int     `json:"year"`
	Mean    float64 `json:"mean"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Members int     `json:"members"`
}

// GroupCount is a group key together with its number of rows
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
