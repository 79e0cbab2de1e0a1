package service

import (
	"strings"
	"time"

	"RefDesk/internal/model"
	"RefDesk/internal/utils/dateparse"
)

const upcomingLimit = 10

// DayCount is the number of fixtures on one day.
type DayCount struct {
	Date     string `json:"date"`
	Fixtures int    `json:"fixtures"`
}

// Dashboard summarises the loaded data for the home view.
type Dashboard struct {
	Fixtures          int             `json:"fixtures"`
	Referees          int             `json:"referees"`
	AvailableReferees int             `json:"available_referees"`
	FirstDate         string          `json:"first_date,omitempty"`
	LastDate          string          `json:"last_date,omitempty"`
	Stale             bool            `json:"stale"`
	Upcoming          []model.Fixture `json:"upcoming"`
	PerDay            []DayCount      `json:"per_day"`
	Issues            []Issue         `json:"issues"`
	LoadedAt          time.Time       `json:"loaded_at"`
}

// BuildDashboard computes the dashboard of snap as seen on today. Data is
// stale when any fixture is dated before today.
func BuildDashboard(snap *Snapshot, today time.Time) Dashboard {
	today = dateparse.Day(today)
	d := Dashboard{
		Fixtures: len(snap.Fixtures),
		Referees: len(snap.Referees),
		Upcoming: []model.Fixture{},
		PerDay:   []DayCount{},
		Issues:   snap.Issues,
		LoadedAt: snap.LoadedAt,
	}
	if d.Issues == nil {
		d.Issues = []Issue{}
	}
	if len(snap.Fixtures) == 0 {
		return d
	}

	// fixtures are sorted by date in the snapshot
	first, last := snap.Fixtures[0].Date, snap.Fixtures[len(snap.Fixtures)-1].Date
	d.FirstDate, d.LastDate = dateparse.Format(first), dateparse.Format(last)
	d.Stale = dateparse.Day(first).Before(today)
	d.AvailableReferees = CountAvailable(snap.Availability, first, last)

	for _, f := range snap.Fixtures {
		if !dateparse.Day(f.Date).Before(today) && len(d.Upcoming) < upcomingLimit {
			d.Upcoming = append(d.Upcoming, f)
		}
		label := dateparse.Format(f.Date)
		if n := len(d.PerDay); n > 0 && d.PerDay[n-1].Date == label {
			d.PerDay[n-1].Fixtures++
		} else {
			d.PerDay = append(d.PerDay, DayCount{Date: label, Fixtures: 1})
		}
	}
	return d
}

// FixtureFilter narrows the fixture list. Zero values disable a criterion.
type FixtureFilter struct {
	Competition string
	From        time.Time
	To          time.Time
}

// ListFixtures returns the fixtures matching filter, by date.
func ListFixtures(snap *Snapshot, filter FixtureFilter) []model.Fixture {
	out := []model.Fixture{}
	for _, f := range snap.Fixtures {
		day := dateparse.Day(f.Date)
		if !filter.From.IsZero() && day.Before(dateparse.Day(filter.From)) {
			continue
		}
		if !filter.To.IsZero() && day.After(dateparse.Day(filter.To)) {
			continue
		}
		if filter.Competition != "" && !strings.EqualFold(strings.TrimSpace(f.Competition), strings.TrimSpace(filter.Competition)) {
			continue
		}
		out = append(out, f)
	}
	return out
}
