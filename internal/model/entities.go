package model

import (
	"strconv"
	"strings"
	"time"
)

// Fixture is a scheduled match read from the fixtures table.
type Fixture struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Competition     string    `json:"competition"`
	Home            string    `json:"home"`
	Away            string    `json:"away"`
	Structure       string    `json:"structure,omitempty"`
	FieldPostalCode string    `json:"field_postal_code,omitempty"`
}

// Referee is one row of the referee roster.
type Referee struct {
	Affiliation   string `json:"affiliation"`
	Surname       string `json:"surname"`
	GivenName     string `json:"given_name"`
	Category      string `json:"category"`
	Department    string `json:"department"`
	ClubCode      string `json:"club_code,omitempty"`
	Club          string `json:"club,omitempty"`
	MatchesWanted int    `json:"matches_wanted,omitempty"`
}

// FullName returns "Surname GivenName".
func (r Referee) FullName() string {
	return strings.TrimSpace(r.Surname + " " + r.GivenName)
}

// Club is one row of the club reference table.
type Club struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PostalCode string `json:"postal_code"`
}

// Department is the first two characters of the postal code, or NotFound.
func (c Club) Department() string {
	if len(c.PostalCode) < 2 {
		return NotFound
	}
	return c.PostalCode[:2]
}

// Category is a referee competency category; lower level means more qualified.
type Category struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Competition carries the level band required of its referees. Sources store
// the bounds in either order.
type Competition struct {
	Name     string `json:"name"`
	MinLevel int    `json:"min_level"`
	MaxLevel int    `json:"max_level"`
}

// Band returns the inclusive level range with low <= high.
func (c Competition) Band() (low, high int) {
	if c.MinLevel <= c.MaxLevel {
		return c.MinLevel, c.MaxLevel
	}
	return c.MaxLevel, c.MinLevel
}

// AvailabilityRecord is one declaration of a referee for one day.
type AvailabilityRecord struct {
	Affiliation string    `json:"affiliation"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Conflict    string    `json:"conflict,omitempty"`
}

// HasConflict reports whether the row carries a designation marker.
func (a AvailabilityRecord) HasConflict() bool {
	c := strings.TrimSpace(a.Conflict)
	return c != "" && c != "0"
}

// NormalizeDepartment zero-pads numeric departments to two digits ("7" -> "07").
// Corsican codes and free text are returned trimmed.
func NormalizeDepartment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return s
}

// NormalizePostalCode left-pads numeric postal codes stored without their
// leading zero ("1000" -> "01000").
func NormalizePostalCode(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	if _, err := strconv.Atoi(s); err == nil && len(s) == 4 {
		return "0" + s
	}
	return s
}
