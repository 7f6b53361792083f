package dataprocessing

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"bundesrat/internal/config"
	"bundesrat/internal/errors"
	"bundesrat/pkg/contracts/domain"
)

// SourceDateLayout accepts day and month with one or two digits
const SourceDateLayout = "2.1.2006"

// Cell values gota and the sources use for missing data
var nullValues = map[string]bool{
	"":      true,
	"NaN":   true,
	"NA":    true,
	"<nil>": true,
}

// ParseMembers converts the joined table into council members, one per row
func ParseMembers(df dataframe.DataFrame, cols config.ColumnsConfig) ([]domain.CouncilMember, error) {
	records := df.Records()
	if len(records) == 0 {
		return nil, errors.NewParsingError("joined table has no header", nil)
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}

	members := make([]domain.CouncilMember, 0, len(records)-1)
	for rowNum, row := range records[1:] {
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			v := strings.TrimSpace(row[i])
			if nullValues[v] {
				return ""
			}
			return v
		}

		m, err := parseMember(get, cols)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				return nil, appErr.WithContext("row", rowNum+1).WithContext("name", get(cols.Name))
			}
			return nil, err
		}
		members = append(members, m)
	}

	return members, nil
}

func parseMember(get func(string) string, cols config.ColumnsConfig) (domain.CouncilMember, error) {
	m := domain.CouncilMember{
		Number:      get(cols.Number),
		Name:        get(cols.Name),
		Party:       get(cols.Party),
		Sex:         domain.Sex(get(cols.Sex)),
		Kanton:      get(cols.Kanton),
		Amtsjahre:   get(cols.Amtsjahre),
		Lebensdaten: get(cols.Lebensdaten),
	}

	var err error
	if m.Elected, err = parseRequiredDate(cols.Elected, get(cols.Elected)); err != nil {
		return m, err
	}
	if m.FirstDayInOffice, err = parseRequiredDate(cols.FirstDayInOffice, get(cols.FirstDayInOffice)); err != nil {
		return m, err
	}
	if m.DateOfBirth, err = parseRequiredDate(colDateOfBirth, get(colDateOfBirth)); err != nil {
		return m, err
	}
	if m.Retired, err = ParseOptionalDate(get(cols.Retired)); err != nil {
		return m, errors.NewParsingError(fmt.Sprintf("invalid %s date", cols.Retired), err)
	}
	if m.DateOfDeath, err = ParseOptionalDate(get(colDateOfDeath)); err != nil {
		return m, errors.NewParsingError(fmt.Sprintf("invalid %s date", colDateOfDeath), err)
	}

	return m, nil
}

func parseRequiredDate(column, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.NewParsingError(fmt.Sprintf("missing %s date", column), nil)
	}
	t, err := ParseDate(value)
	if err != nil {
		return time.Time{}, errors.NewParsingError(fmt.Sprintf("invalid %s date", column), err)
	}
	return t, nil
}

// ParseDate parses a dd.mm.yyyy date as UTC midnight
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(SourceDateLayout, strings.TrimSpace(value), time.UTC)
}

// ParseOptionalDate returns nil for an empty value
func ParseOptionalDate(value string) (*time.Time, error) {
	if nullValues[strings.TrimSpace(value)] {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
