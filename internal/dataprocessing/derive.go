package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
	"bundesrat/pkg/contracts/domain"
)

// Separators of the Wikipedia year ranges. The en dash is what the tables
// use; the hyphen shows up in hand-edited copies.
const (
	rangeSeparator         = "–"
	fallbackRangeSeparator = "-"
)

// ParseYearRange splits "1848–1854" into its first and last year. An empty
// end ("2019–") means the range is still open and ends in currentYear.
func ParseYearRange(s string, currentYear int) (start, end int, err error) {
	s = strings.TrimSpace(s)
	sep := rangeSeparator
	if !strings.Contains(s, sep) && strings.Contains(s, fallbackRangeSeparator) {
		sep = fallbackRangeSeparator
	}

	parts := strings.Split(s, sep)
	first := strings.TrimSpace(parts[0])
	last := strings.TrimSpace(parts[len(parts)-1])

	start, err = strconv.Atoi(first)
	if err != nil {
		return 0, 0, errors.NewParsingError(fmt.Sprintf("invalid start year in %q", s), err)
	}

	if last == "" {
		return start, currentYear, nil
	}
	end, err = strconv.Atoi(last)
	if err != nil {
		return 0, 0, errors.NewParsingError(fmt.Sprintf("invalid end year in %q", s), err)
	}
	return start, end, nil
}

// YearSpan returns every year from start to end inclusive
func YearSpan(start, end int) []int {
	if end < start {
		return []int{}
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// ExtractAmtsjahre sets the first and last year in office and the list of
// active years from the Amtsjahre range.
func ExtractAmtsjahre(members []domain.CouncilMember, currentYear int) ([]domain.CouncilMember, error) {
	out := make([]domain.CouncilMember, len(members))
	for i, m := range members {
		c := m.Clone()
		first, last, err := ParseYearRange(m.Amtsjahre, currentYear)
		if err != nil {
			return nil, withMember(err, m)
		}
		c.ErstesAmtsjahr = first
		c.LetztesAmtsjahr = last
		c.AktiveJahre = YearSpan(first, last)
		out[i] = c
	}
	return out, nil
}

// ExtractLivingYears sets the last year alive, which is the current year for
// the living. The birth year is only checked for being a number.
func ExtractLivingYears(members []domain.CouncilMember, currentYear int) ([]domain.CouncilMember, error) {
	out := make([]domain.CouncilMember, len(members))
	for i, m := range members {
		c := m.Clone()
		_, last, err := ParseYearRange(m.Lebensdaten, currentYear)
		if err != nil {
			return nil, withMember(err, m)
		}
		c.LetztesLebensjahr = last
		out[i] = c
	}
	return out, nil
}

// CountActive returns the number of members without a retirement date
func CountActive(members []domain.CouncilMember) int {
	n := 0
	for _, m := range members {
		if m.IsActive() {
			n++
		}
	}
	return n
}

// FillRetired sets the retirement date of active members to today
func FillRetired(members []domain.CouncilMember, today time.Time) []domain.CouncilMember {
	out := make([]domain.CouncilMember, len(members))
	for i, m := range members {
		c := m.Clone()
		if c.Retired == nil {
			t := today
			c.Retired = &t
		}
		out[i] = c
	}
	return out
}

// Deriver adds the calendar features used by the analyses
type Deriver struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewDeriver creates a deriver. now defaults to time.Now.
func NewDeriver(logger *slog.Logger, now func() time.Time) *Deriver {
	if now == nil {
		now = time.Now
	}
	return &Deriver{
		logger: infrastructure.WithComponent(logger, "deriver"),
		now:    now,
	}
}

// Today returns the current date at UTC midnight
func (d *Deriver) Today() time.Time {
	n := d.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Derive fills the retirement date of active members and extracts the year
// features. The input slice is left untouched.
func (d *Deriver) Derive(ctx context.Context, members []domain.CouncilMember) ([]domain.CouncilMember, error) {
	today := d.Today()
	active := CountActive(members)

	out := FillRetired(members, today)
	out, err := ExtractAmtsjahre(out, today.Year())
	if err != nil {
		return nil, err
	}
	out, err = ExtractLivingYears(out, today.Year())
	if err != nil {
		return nil, err
	}

	d.logger.InfoContext(ctx, "Features derived",
		slog.Int("members", len(out)),
		slog.Int("filled_retired", active),
		slog.String("today", today.Format(domain.DateLayout)))
	return out, nil
}

func withMember(err error, m domain.CouncilMember) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.WithContext("name", m.Name)
	}
	return err
}
