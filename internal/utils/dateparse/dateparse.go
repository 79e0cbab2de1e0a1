// Package dateparse reads the dates found in federation spreadsheets: day-first
// French dates, ISO timestamps written back by the ledger and Excel serials.
package dateparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var layouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04",
	"2/1/2006",
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/06",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	// excelize renders cells carrying the built-in date format (id 14) as
	// mm-dd-yy. Day-first dashed dates always have a four digit year, so the
	// two layouts do not overlap.
	"01-02-06",
}

// ErrEmpty is returned for blank cells.
var ErrEmpty = errors.New("empty date")

// excelEpoch is day 0 of the 1900 date system, shifted for the leap year bug.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Parse reads s in local-less UTC. Numeric values are treated as Excel serial
// days, possibly with a fractional time part.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f < 2958466 {
		days := int(f)
		secs := int((f - float64(days)) * 86400)
		return excelEpoch.AddDate(0, 0, days).Add(time.Duration(secs) * time.Second), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Format renders a day the way designators read it.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
