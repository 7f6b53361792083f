package domain

import (
	"time"
)

// Sex of a council member as recorded by admin.ch
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "W"
)

// DateLayout is the layout used for dates in exported tables
const DateLayout = "2006-01-02"

// CouncilMember is one row of the joined Federal Council table.
// Retired and DateOfDeath are nil while the member is in office or alive.
type CouncilMember struct {
	Number           string     `json:"number" validate:"required"`
	Name             string     `json:"name" validate:"required"`
	Party            string     `json:"party"`
	Sex              Sex        `json:"sex" validate:"required,oneof=M W"`
	Kanton           string     `json:"kanton" validate:"required,canton"`
	Elected          time.Time  `json:"elected" validate:"required"`
	Retired          *time.Time `json:"retired,omitempty"`
	FirstDayInOffice time.Time  `json:"first_day_in_office" validate:"required"`
	DateOfBirth      time.Time  `json:"date_of_birth" validate:"required"`
	DateOfDeath      *time.Time `json:"date_of_death,omitempty"`

	// Raw range strings from Wikipedia, e.g. "1848–1854" or "2019–"
	Amtsjahre   string `json:"amtsjahre,omitempty"`
	Lebensdaten string `json:"lebensdaten,omitempty"`

	// Derived
	ErstesAmtsjahr    int   `json:"erstes_amtsjahr"`
	LetztesAmtsjahr   int   `json:"letztes_amtsjahr"`
	AktiveJahre       []int `json:"aktive_jahre"`
	LetztesLebensjahr int   `json:"letztes_lebensjahr"`
}

// IsActive reports whether the member has no retirement date yet
func (m CouncilMember) IsActive() bool {
	return m.Retired == nil
}

// IsAlive reports whether no date of death is recorded
func (m CouncilMember) IsAlive() bool {
	return m.DateOfDeath == nil
}

// DiedInOffice reports whether the member's term ended with their death
func (m CouncilMember) DiedInOffice() bool {
	return m.Retired != nil && m.DateOfDeath != nil && m.Retired.Equal(*m.DateOfDeath)
}

// Clone returns a deep copy so derivation steps never share mutable state
func (m CouncilMember) Clone() CouncilMember {
	c := m
	if m.Retired != nil {
		r := *m.Retired
		c.Retired = &r
	}
	if m.DateOfDeath != nil {
		d := *m.DateOfDeath
		c.DateOfDeath = &d
	}
	if m.AktiveJahre != nil {
		c.AktiveJahre = append([]int(nil), m.AktiveJahre...)
	}
	return c
}

// Cantons is the reference set of the 26 Swiss canton codes
var Cantons = []string{
	"AG", "AI", "AR", "BE", "BL", "BS", "FR", "GE", "GL", "GR", "JU", "LU", "NE",
	"NW", "OW", "SG", "SH", "SO", "SZ", "TG", "TI", "UR", "VD", "VS", "ZG", "ZH",
}

// IsCanton reports whether code is one of the 26 canton codes
func IsCanton(code string) bool {
	for _, c := range Cantons {
		if c == code {
			return true
		}
	}
	return false
}
