package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bundesrat/pkg/contracts/domain"
)

// Summary holds the descriptive statistics of one numeric column
type Summary struct {
	Count     int
	NullCount int
	Mean      float64
	Std       float64
	Min       float64
	Q25       float64
	Median    float64
	Q75       float64
	Max       float64
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max. Quartiles take the value at the nearest rank, halves rounded up.
func Describe(values []float64, nullCount int) Summary {
	s := Summary{Count: len(values), NullCount: nullCount}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Std = math.NaN()
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = nearestRank(sorted, 0.25)
	s.Median = nearestRank(sorted, 0.5)
	s.Q75 = nearestRank(sorted, 0.75)
	return s
}

// nearestRank returns the element at round(p*(n-1)) of sorted
func nearestRank(sorted []float64, p float64) float64 {
	return sorted[int(math.Round(p*float64(len(sorted)-1)))]
}

// Table renders the summary with one row per statistic
func (s Summary) Table(name, column string) domain.Table {
	cell := func(f float64) string {
		if math.IsNaN(f) {
			return ""
		}
		return formatFloat(f)
	}
	return domain.Table{
		Name:    name,
		Columns: []string{"statistic", column},
		Rows: [][]string{
			{"count", formatInt(s.Count)},
			{"null_count", formatInt(s.NullCount)},
			{"mean", cell(s.Mean)},
			{"std", cell(s.Std)},
			{"min", cell(s.Min)},
			{"25%", cell(s.Q25)},
			{"50%", cell(s.Median)},
			{"75%", cell(s.Q75)},
			{"max", cell(s.Max)},
		},
	}
}
