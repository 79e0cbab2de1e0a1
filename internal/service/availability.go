package service

import (
	"fmt"
	"strings"
	"time"

	"RefDesk/internal/model"
	"RefDesk/internal/utils/dateparse"

	"github.com/jinzhu/now"
)

// StatusKind classifies a referee's availability for a fixture.
type StatusKind string

const (
	StatusAvailable         StatusKind = "available"
	StatusUnavailable       StatusKind = "unavailable"
	StatusAssignedElsewhere StatusKind = "assigned-elsewhere"
	StatusUnknown           StatusKind = "unknown"
)

// Status is the availability verdict shown next to a candidate.
type Status struct {
	Kind       StatusKind `json:"kind"`
	Label      string     `json:"label"`
	Designable bool       `json:"designable"`
}

// NotReported fills grid cells without a declaration.
const NotReported = "Non renseigné"

// maxGridDays bounds the availability grid.
const maxGridDays = 62

var positiveTokens = []string{"OUI", "WEEK-END", "WEEKEND", "SAMEDI", "DIMANCHE"}

var weekConfig = &now.Config{WeekStartDay: time.Monday, TimeLocation: time.UTC}

// WeekendWindow returns the Saturday and Sunday of the Monday-based week
// containing date.
func WeekendWindow(date time.Time) (sat, sun time.Time) {
	monday := weekConfig.With(dateparse.Day(date)).BeginningOfWeek()
	return monday.AddDate(0, 0, 5), monday.AddDate(0, 0, 6)
}

// StatusFor resolves the availability of one referee for a fixture date
// from the declarations of that fixture's weekend. A designation marker on
// the exact fixture day beats any positive declaration.
func StatusFor(affiliation string, matchDate time.Time, records []model.AvailabilityRecord) Status {
	sat, sun := WeekendWindow(matchDate)
	affiliation = strings.TrimSpace(affiliation)

	var window []model.AvailabilityRecord
	for _, r := range records {
		if strings.TrimSpace(r.Affiliation) != affiliation {
			continue
		}
		day := dateparse.Day(r.Date)
		if day.Before(sat) || day.After(sun) {
			continue
		}
		window = append(window, r)
	}

	if len(window) == 0 {
		return Status{Kind: StatusUnknown, Label: "not reported"}
	}
	for _, r := range window {
		if dateparse.SameDay(r.Date, matchDate) && r.HasConflict() {
			return Status{
				Kind:  StatusAssignedElsewhere,
				Label: "already assigned to: " + strings.TrimSpace(r.Conflict),
			}
		}
	}
	for _, r := range window {
		if isPositive(r.Status) {
			return Status{Kind: StatusAvailable, Label: "available", Designable: true}
		}
	}
	return Status{
		Kind:  StatusUnavailable,
		Label: fmt.Sprintf("not available (%s)", window[0].Status),
	}
}

func isPositive(status string) bool {
	up := strings.ToUpper(status)
	for _, tok := range positiveTokens {
		if strings.Contains(up, tok) {
			return true
		}
	}
	return false
}

// CountAvailable counts distinct referees declaring exactly "OUI" between
// from and to, both days included.
func CountAvailable(records []model.AvailabilityRecord, from, to time.Time) int {
	from, to = dateparse.Day(from), dateparse.Day(to)
	seen := make(map[string]struct{})
	for _, r := range records {
		day := dateparse.Day(r.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(r.Status), "OUI") {
			seen[strings.TrimSpace(r.Affiliation)] = struct{}{}
		}
	}
	return len(seen)
}

// GridCell is one referee-day of the availability grid.
type GridCell struct {
	Status   string `json:"status"`
	Conflict string `json:"conflict,omitempty"`
}

// GridRow is one referee line of the availability grid.
type GridRow struct {
	Referee model.Referee `json:"referee"`
	Cells   []GridCell    `json:"cells"`
}

// AvailabilityGrid lays declarations out as referee x day.
type AvailabilityGrid struct {
	Dates []string  `json:"dates"`
	Rows  []GridRow `json:"rows"`
}

// Grid builds the availability grid for every day between from and to.
// The range is capped at maxGridDays.
func Grid(records []model.AvailabilityRecord, referees []model.Referee, from, to time.Time) AvailabilityGrid {
	from, to = dateparse.Day(from), dateparse.Day(to)
	if to.Before(from) {
		from, to = to, from
	}
	var days []time.Time
	for d := from; !d.After(to) && len(days) < maxGridDays; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	type key struct {
		aff string
		day time.Time
	}
	byKey := make(map[key]model.AvailabilityRecord, len(records))
	for _, r := range records {
		k := key{strings.TrimSpace(r.Affiliation), dateparse.Day(r.Date)}
		if _, ok := byKey[k]; !ok {
			byKey[k] = r
		}
	}

	grid := AvailabilityGrid{Dates: make([]string, len(days)), Rows: make([]GridRow, 0, len(referees))}
	for i, d := range days {
		grid.Dates[i] = dateparse.Format(d)
	}
	for _, ref := range referees {
		row := GridRow{Referee: ref, Cells: make([]GridCell, len(days))}
		for i, d := range days {
			r, ok := byKey[key{ref.Affiliation, d}]
			if !ok || strings.TrimSpace(r.Status) == "" {
				row.Cells[i] = GridCell{Status: NotReported}
				continue
			}
			cell := GridCell{Status: r.Status}
			if r.HasConflict() {
				cell.Conflict = strings.TrimSpace(r.Conflict)
			}
			row.Cells[i] = cell
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}
