package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bundesrat/internal/infrastructure"
	"bundesrat/pkg/contracts/domain"
)

// Names of the produced tables, used as export file names
const (
	TableDaysInOffice         = "days_in_office"
	TableDaysInOfficeStats    = "days_in_office_stats"
	TableParty                = "party"
	TableSex                  = "sex"
	TableCantons              = "cantons"
	TableMonthElected         = "month_elected"
	TableMonthBorn            = "month_born"
	TableAverageAge           = "average_age"
	TableMembersPerYear       = "members_per_year"
	TableMostElectedSingleDay = "most_elected_single_day"
	TableMostElectionsInAYear = "most_elections_in_a_year"
	TableListOfWomen          = "list_of_women"
	TableStillAlive           = "still_alive"
	TableDiedInOffice         = "died_in_office"
	TableCompleteData         = "complete_data"
)

const countColumn = "count"

// MemberColumns is the column layout of tables listing whole members
var MemberColumns = []string{
	"Name", "Party", "Sex", "Kanton", "Elected", "Retired", "FirstDayInOffice",
	"Nummer", "DateOfBirth", "DateOfDeath",
	"ErstesAmtsjahr", "LetztesAmtsjahr", "AktiveJahre", "LetztesLebensjahr",
}

// Report is the outcome of all analyses of one run
type Report struct {
	Total          int
	Tables         []domain.Table
	Cantons        []domain.GroupCount
	MissingCantons []string
	AgeByYear      []domain.AgeByYear
}

// Table looks up a produced table by name
func (r *Report) Table(name string) (domain.Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return domain.Table{}, false
}

// Analyzer runs every analysis over the derived members
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	return &Analyzer{logger: infrastructure.WithComponent(logger, "analyzer")}
}

// Analyze produces all tables in export order
func (a *Analyzer) Analyze(ctx context.Context, members []domain.CouncilMember) *Report {
	cantons, missing := CantonCounts(members)
	ages := AgeByYear(members)

	r := &Report{
		Total:          len(members),
		Cantons:        cantons,
		MissingCantons: missing,
		AgeByYear:      ages,
	}
	r.Tables = []domain.Table{
		DaysInOfficeTable(members),
		DaysInOfficeStatsTable(members),
		PartyTable(members),
		SexTable(members),
		CantonTable(cantons),
		MonthElectedTable(members),
		MonthBornTable(members),
		AverageAgeTable(ages),
		MembersPerYearTable(members),
		MostElectedSingleDayTable(members),
		MostElectionsInAYearTable(members),
		ListOfWomenTable(members),
		StillAliveTable(members),
		DiedInOfficeTable(members),
		CompleteDataTable(members),
	}

	a.logger.InfoContext(ctx, "Analyses completed",
		slog.Int("members", r.Total),
		slog.Int("tables", len(r.Tables)),
		slog.Int("missing_cantons", len(missing)))
	return r
}

// DaysInOffice returns the days between the first day in office and
// retirement. ok is false while the retirement date is unknown.
func DaysInOffice(m domain.CouncilMember) (days int, ok bool) {
	if m.Retired == nil {
		return 0, false
	}
	return daysBetween(m.FirstDayInOffice, *m.Retired), true
}

// DaysInOfficeTable lists all members with their days in office, longest first
func DaysInOfficeTable(members []domain.CouncilMember) domain.Table {
	type entry struct {
		m    domain.CouncilMember
		days int
		ok   bool
	}
	entries := make([]entry, len(members))
	for i, m := range members {
		d, ok := DaysInOffice(m)
		entries[i] = entry{m: m, days: d, ok: ok}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.days != b.days {
			return a.days > b.days
		}
		return a.m.Name < b.m.Name
	})

	t := domain.Table{
		Name:    TableDaysInOffice,
		Columns: append(append([]string(nil), MemberColumns...), "DaysInOffice"),
	}
	for _, e := range entries {
		days := ""
		if e.ok {
			days = formatInt(e.days)
		}
		t.Rows = append(t.Rows, append(memberRow(e.m), days))
	}
	return t
}

// DaysInOfficeStatsTable describes the distribution of days in office
func DaysInOfficeStatsTable(members []domain.CouncilMember) domain.Table {
	values := make([]float64, 0, len(members))
	nulls := 0
	for _, m := range members {
		d, ok := DaysInOffice(m)
		if !ok {
			nulls++
			continue
		}
		values = append(values, float64(d))
	}
	return Describe(values, nulls).Table(TableDaysInOfficeStats, "DaysInOffice")
}

// PartyTable counts members per party
func PartyTable(members []domain.CouncilMember) domain.Table {
	return groupTable(TableParty, "Party", countBy(members, func(m domain.CouncilMember) string {
		return m.Party
	}))
}

// SexTable counts members per sex
func SexTable(members []domain.CouncilMember) domain.Table {
	return groupTable(TableSex, "Sex", countBy(members, func(m domain.CouncilMember) string {
		return string(m.Sex)
	}))
}

// CantonCounts counts members per canton and lists the reference cantons
// that never had a member, in alphabetical order.
func CantonCounts(members []domain.CouncilMember) (counts []domain.GroupCount, missing []string) {
	counts = countBy(members, func(m domain.CouncilMember) string {
		return m.Kanton
	})
	present := make(map[string]bool, len(counts))
	for _, c := range counts {
		present[c.Key] = true
	}
	missing = []string{}
	for _, c := range domain.Cantons {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return counts, missing
}

// CantonTable renders the counts from CantonCounts
func CantonTable(counts []domain.GroupCount) domain.Table {
	return groupTable(TableCantons, "Kanton", counts)
}

// MonthElectedTable counts elections per calendar month
func MonthElectedTable(members []domain.CouncilMember) domain.Table {
	return groupTable(TableMonthElected, "MonthElected", countBy(members, func(m domain.CouncilMember) string {
		return formatInt(int(m.Elected.Month()))
	}))
}

// MonthBornTable counts births per calendar month
func MonthBornTable(members []domain.CouncilMember) domain.Table {
	return groupTable(TableMonthBorn, "MonthBorn", countBy(members, func(m domain.CouncilMember) string {
		return formatInt(int(m.DateOfBirth.Month()))
	}))
}

// MostElectedSingleDayTable counts members elected on the same day
func MostElectedSingleDayTable(members []domain.CouncilMember) domain.Table {
	return groupTable(TableMostElectedSingleDay, "Elected", countBy(members, func(m domain.CouncilMember) string {
		return formatDate(m.Elected)
	}))
}

// MostElectionsInAYearTable counts the distinct election days per year
func MostElectionsInAYearTable(members []domain.CouncilMember) domain.Table {
	days := countBy(members, func(m domain.CouncilMember) string {
		return formatDate(m.Elected)
	})
	years := make([]string, len(days))
	for i, d := range days {
		years[i] = d.Key[:4]
	}
	return groupTable(TableMostElectionsInAYear, "Elected", GroupCounts(years))
}

// MembersPerYearTable counts the members in office per calendar year
func MembersPerYearTable(members []domain.CouncilMember) domain.Table {
	var years []string
	for _, m := range members {
		for _, y := range m.AktiveJahre {
			years = append(years, formatInt(y))
		}
	}
	return groupTable(TableMembersPerYear, "AktiveJahre", GroupCounts(years))
}

// Age returns the age in years on January 1st of year. A year is counted as
// 365 days.
func Age(dateOfBirth time.Time, year int) float64 {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return float64(daysBetween(dateOfBirth, jan1)) / 365
}

// AgeByYear aggregates the age of the members in office per year, ordered
// by year.
func AgeByYear(members []domain.CouncilMember) []domain.AgeByYear {
	byYear := make(map[int][]float64)
	for _, m := range members {
		for _, y := range m.AktiveJahre {
			byYear[y] = append(byYear[y], Age(m.DateOfBirth, y))
		}
	}

	out := make([]domain.AgeByYear, 0, len(byYear))
	for y, ages := range byYear {
		out = append(out, domain.AgeByYear{
			Year:    y,
			Mean:    stat.Mean(ages, nil),
			Max:     floats.Max(ages),
			Min:     floats.Min(ages),
			Members: len(ages),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// AverageAgeTable renders the age statistics, highest mean age first
func AverageAgeTable(ages []domain.AgeByYear) domain.Table {
	sorted := append([]domain.AgeByYear(nil), ages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Mean != sorted[j].Mean {
			return sorted[i].Mean > sorted[j].Mean
		}
		return sorted[i].Year < sorted[j].Year
	})

	t := domain.Table{
		Name:    TableAverageAge,
		Columns: []string{"JahrDatum", "Jahr", "DurchschnittsAlter", "MaxAlter", "MinAlter"},
	}
	for _, a := range sorted {
		t.Rows = append(t.Rows, []string{
			formatDate(time.Date(a.Year, time.January, 1, 0, 0, 0, 0, time.UTC)),
			formatInt(a.Year),
			formatFloat(a.Mean),
			formatFloat(a.Max),
			formatFloat(a.Min),
		})
	}
	return t
}

// ListOfWomenTable lists the names of all female members
func ListOfWomenTable(members []domain.CouncilMember) domain.Table {
	t := domain.Table{Name: TableListOfWomen, Columns: []string{"Name"}}
	for _, m := range members {
		if m.Sex == domain.SexFemale {
			t.Rows = append(t.Rows, []string{m.Name})
		}
	}
	return t
}

// StillAliveTable lists all members without a date of death
func StillAliveTable(members []domain.CouncilMember) domain.Table {
	t := domain.Table{Name: TableStillAlive, Columns: append([]string(nil), MemberColumns...)}
	for _, m := range members {
		if m.IsAlive() {
			t.Rows = append(t.Rows, memberRow(m))
		}
	}
	return t
}

// DiedInOfficeTable lists the names of members who died on their last day in office
func DiedInOfficeTable(members []domain.CouncilMember) domain.Table {
	t := domain.Table{Name: TableDiedInOffice, Columns: []string{"Name"}}
	for _, m := range members {
		if m.DiedInOffice() {
			t.Rows = append(t.Rows, []string{m.Name})
		}
	}
	return t
}

// CompleteDataTable lists every member with every column
func CompleteDataTable(members []domain.CouncilMember) domain.Table {
	t := domain.Table{Name: TableCompleteData, Columns: append([]string(nil), MemberColumns...)}
	for _, m := range members {
		t.Rows = append(t.Rows, memberRow(m))
	}
	return t
}

// GroupCounts counts equal keys. The result is ordered by count descending,
// ties by key ascending (numerically when both keys are integers).
func GroupCounts(keys []string) []domain.GroupCount {
	counts := make(map[string]int)
	for _, k := range keys {
		counts[k]++
	}
	out := make([]domain.GroupCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, domain.GroupCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return keyLess(out[i].Key, out[j].Key)
	})
	return out
}

func countBy(members []domain.CouncilMember, key func(domain.CouncilMember) string) []domain.GroupCount {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = key(m)
	}
	return GroupCounts(keys)
}

func keyLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func groupTable(name, keyColumn string, counts []domain.GroupCount) domain.Table {
	t := domain.Table{Name: name, Columns: []string{keyColumn, countColumn}}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Key, formatInt(c.Count)})
	}
	return t
}

func memberRow(m domain.CouncilMember) []string {
	return []string{
		m.Name,
		m.Party,
		string(m.Sex),
		m.Kanton,
		formatDate(m.Elected),
		formatOptionalDate(m.Retired),
		formatDate(m.FirstDayInOffice),
		m.Number,
		formatDate(m.DateOfBirth),
		formatOptionalDate(m.DateOfDeath),
		formatInt(m.ErstesAmtsjahr),
		formatInt(m.LetztesAmtsjahr),
		formatYears(m.AktiveJahre),
		formatInt(m.LetztesLebensjahr),
	}
}

// daysBetween counts whole days from a to b; both are dates at UTC midnight
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
