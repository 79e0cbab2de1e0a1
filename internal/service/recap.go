package service

import (
	"sort"
	"strings"

	"RefDesk/internal/model"
)

const recapBlank = "-"

// RecapFilter selects recap or federation rows. Competitions is a whitelist;
// Query is searched case-insensitively in team and referee names.
type RecapFilter struct {
	Competitions []string
	Query        string
}

func (f RecapFilter) keep(competition string, fields ...string) bool {
	if len(f.Competitions) > 0 {
		found := false
		for _, c := range f.Competitions {
			if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(competition)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// RecapRow is one fixture joined with one manual designation, or with
// blanks when it has none.
type RecapRow struct {
	FixtureID   string `json:"fixture_id"`
	Date        string `json:"date"`
	Competition string `json:"competition"`
	Home        string `json:"home"`
	Away        string `json:"away"`
	Surname     string `json:"surname"`
	GivenName   string `json:"given_name"`
	Department  string `json:"department"`
	Role        string `json:"role"`
}

// Recap left-joins every fixture with the manual designations.
func Recap(fixtures []model.Fixture, manual []model.Assignment, filter RecapFilter) []RecapRow {
	byFixture := make(map[string][]model.Assignment)
	for _, a := range manual {
		byFixture[a.FixtureID] = append(byFixture[a.FixtureID], a)
	}

	out := []RecapRow{}
	for _, f := range fixtures {
		base := RecapRow{
			FixtureID:   f.ID,
			Date:        f.Date.Format("02/01/2006 15:04"),
			Competition: f.Competition,
			Home:        f.Home,
			Away:        f.Away,
		}
		rows := byFixture[f.ID]
		if len(rows) == 0 {
			r := base
			r.Surname, r.GivenName, r.Department, r.Role = recapBlank, recapBlank, recapBlank, recapBlank
			if filter.keep(f.Competition, f.Home, f.Away) {
				out = append(out, r)
			}
			continue
		}
		for _, a := range rows {
			r := base
			r.Surname = orBlank(a.Surname)
			r.GivenName = orBlank(a.GivenName)
			r.Department = orBlank(model.NormalizeDepartment(a.Department))
			r.Role = orBlank(string(a.Role))
			if filter.keep(f.Competition, f.Home, f.Away, a.Surname, a.GivenName) {
				out = append(out, r)
			}
		}
	}
	return out
}

func orBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return recapBlank
	}
	return s
}

// FederationStats counts federation posts after filtering.
type FederationStats struct {
	Matches int                `json:"matches"`
	Posts   int                `json:"posts"`
	Filled  int                `json:"filled"`
	ToFill  int                `json:"to_fill"`
	Rows    []model.Assignment `json:"rows"`
}

// ComputeFederationStats counts unique matches and filled posts of the
// federation export.
func ComputeFederationStats(federation []model.Assignment, filter RecapFilter) FederationStats {
	stats := FederationStats{Rows: []model.Assignment{}}
	matches := make(map[string]struct{})
	for _, a := range federation {
		if !filter.keep(a.Competition, a.Home, a.Away, a.Surname, a.GivenName) {
			continue
		}
		stats.Rows = append(stats.Rows, a)
		matches[a.FixtureID] = struct{}{}
		stats.Posts++
		if !a.IsPlaceholder() {
			stats.Filled++
		}
	}
	stats.Matches = len(matches)
	stats.ToFill = stats.Posts - stats.Filled
	return stats
}

// FederationCompetitions lists the competitions present in the export.
func FederationCompetitions(federation []model.Assignment) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range federation {
		if _, ok := seen[a.Competition]; ok || a.Competition == "" {
			continue
		}
		seen[a.Competition] = struct{}{}
		out = append(out, a.Competition)
	}
	sort.Strings(out)
	return out
}
