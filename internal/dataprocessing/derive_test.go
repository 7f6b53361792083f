package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundesrat/internal/errors"
	"bundesrat/pkg/contracts/domain"
)

var fixedToday = time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedToday }

func deriveFixture(t *testing.T) []domain.CouncilMember {
	t.Helper()
	derived, err := NewDeriver(nil, fixedClock).Derive(context.Background(), loadFixture(t))
	require.NoError(t, err)
	return derived
}

func TestParseYearRange(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{name: "closed range", input: "1848–1854", wantStart: 1848, wantEnd: 1854},
		{name: "open range", input: "1848–", wantStart: 1848, wantEnd: 2025},
		{name: "single year", input: "2025", wantStart: 2025, wantEnd: 2025},
		{name: "hyphen separator", input: "1959-2020", wantStart: 1959, wantEnd: 2020},
		{name: "surrounding spaces", input: " 1811 – 1890 ", wantStart: 1811, wantEnd: 1890},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage start", input: "um 1800–1850", wantErr: true},
		{name: "garbage end", input: "1800–heute", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseYearRange(tt.input, 2025)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestYearSpan(t *testing.T) {
	assert.Equal(t, []int{1848, 1849, 1850, 1851, 1852, 1853, 1854}, YearSpan(1848, 1854))
	assert.Equal(t, []int{2025}, YearSpan(2025, 2025))
	assert.Empty(t, YearSpan(2025, 2024))
}

func TestExtractAmtsjahre(t *testing.T) {
	in := []domain.CouncilMember{
		{Name: "Ulrich Ochsenbein", Amtsjahre: "1848–1854"},
		{Name: "Martin Pfister", Amtsjahre: "2025–"},
	}

	out, err := ExtractAmtsjahre(in, 2026)
	require.NoError(t, err)

	assert.Equal(t, 1848, out[0].ErstesAmtsjahr)
	assert.Equal(t, 1854, out[0].LetztesAmtsjahr)
	assert.Len(t, out[0].AktiveJahre, 7)
	assert.Equal(t, []int{2025, 2026}, out[1].AktiveJahre)

	// input untouched
	assert.Nil(t, in[0].AktiveJahre)
	assert.Zero(t, in[1].LetztesAmtsjahr)

	_, err = ExtractAmtsjahre([]domain.CouncilMember{{Name: "X", Amtsjahre: "?"}}, 2026)
	require.Error(t, err)
	assert.Equal(t, "X", err.(*errors.AppError).Context["name"])
}

func TestExtractLivingYears(t *testing.T) {
	in := []domain.CouncilMember{
		{Lebensdaten: "1811–1890"},
		{Lebensdaten: "1963–"},
	}
	out, err := ExtractLivingYears(in, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1890, out[0].LetztesLebensjahr)
	assert.Equal(t, 2025, out[1].LetztesLebensjahr)

	_, err = ExtractLivingYears([]domain.CouncilMember{{Lebensdaten: "–1890"}}, 2025)
	assert.Error(t, err)
}

func TestFillRetired(t *testing.T) {
	retired := time.Date(1854, 12, 31, 0, 0, 0, 0, time.UTC)
	in := []domain.CouncilMember{
		{Name: "Ulrich Ochsenbein", Retired: &retired},
		{Name: "Guy Parmelin"},
	}
	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	out := FillRetired(in, today)

	assert.Equal(t, 1, CountActive(in))
	assert.Equal(t, 0, CountActive(out))
	assert.Equal(t, retired, *out[0].Retired)
	assert.Equal(t, today, *out[1].Retired)

	// the filled date is not shared with the input
	*out[0].Retired = today
	assert.Equal(t, retired, *in[0].Retired)
}

func TestDeriver_Derive(t *testing.T) {
	loaded := loadFixture(t)
	derived, err := NewDeriver(nil, fixedClock).Derive(context.Background(), loaded)
	require.NoError(t, err)

	require.Len(t, derived, len(loaded))
	assert.Equal(t, 7, CountActive(loaded))
	assert.Equal(t, 0, CountActive(derived))

	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	for i, m := range derived {
		if loaded[i].IsActive() {
			assert.Equal(t, today, *m.Retired, m.Name)
			assert.Equal(t, 2025, m.LetztesAmtsjahr, m.Name)
		}
		if loaded[i].IsAlive() {
			assert.Equal(t, 2025, m.LetztesLebensjahr, m.Name)
		}
		assert.Equal(t, m.ErstesAmtsjahr, m.AktiveJahre[0])
		assert.Equal(t, m.LetztesAmtsjahr, m.AktiveJahre[len(m.AktiveJahre)-1])
	}

	ochsenbein := derived[1]
	assert.Equal(t, 1848, ochsenbein.ErstesAmtsjahr)
	assert.Equal(t, 1854, ochsenbein.LetztesAmtsjahr)
	assert.Equal(t, 1890, ochsenbein.LetztesLebensjahr)
}

func TestDeriver_Today(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	d := NewDeriver(nil, func() time.Time { return time.Date(2025, 3, 1, 23, 59, 0, 0, loc) })
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), d.Today())
}
