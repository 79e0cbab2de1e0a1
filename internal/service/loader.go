package service

import (
	"strconv"
	"strings"

	"RefDesk/internal/config"
	"RefDesk/internal/model"
	"RefDesk/internal/utils/dateparse"

	"github.com/sirupsen/logrus"
)

// LoadReport summarises the conversion of one raw table.
type LoadReport struct {
	Table   string `json:"table"`
	Rows    int    `json:"rows"`
	Loaded  int    `json:"loaded"`
	Skipped int    `json:"skipped"`
}

// Loader turns raw tables into typed records through the column mapping.
type Loader struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func NewLoader(cfg *config.Config, logger *logrus.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logger}
}

type rowReader struct {
	cols map[string]int
}

func (r rowReader) get(row []string, field string) string {
	i, ok := r.cols[field]
	if !ok {
		return ""
	}
	return model.Cell(row, i)
}

// bind resolves logical fields to column positions. The configured header is
// tried first, then the default one. Missing required fields produce a
// *SchemaError naming the expected headers.
func (l *Loader) bind(t *model.Table, table string, required, optional []string) (rowReader, error) {
	idx := t.Index()
	rr := rowReader{cols: make(map[string]int, len(required)+len(optional))}
	lookup := func(field string) (int, bool) {
		for _, h := range []string{l.cfg.Column(field), config.DefaultColumns[field]} {
			if i, ok := idx[strings.ToLower(strings.TrimSpace(h))]; ok && h != "" {
				return i, true
			}
		}
		return 0, false
	}

	var missing []string
	for _, f := range required {
		if i, ok := lookup(f); ok {
			rr.cols[f] = i
		} else {
			missing = append(missing, l.cfg.Column(f))
		}
	}
	if len(missing) > 0 {
		return rr, &SchemaError{Table: table, Missing: missing}
	}
	for _, f := range optional {
		if i, ok := lookup(f); ok {
			rr.cols[f] = i
		}
	}
	return rr, nil
}

func (l *Loader) skip(report *LoadReport, line int, reason string) {
	report.Skipped++
	l.logger.WithFields(logrus.Fields{"table": report.Table, "line": line, "reason": reason}).Warn("row skipped")
}

// Fixtures converts the fixtures table.
func (l *Loader) Fixtures(t *model.Table) ([]model.Fixture, LoadReport, error) {
	report := LoadReport{Table: config.SourceFixtures, Rows: t.Len()}
	if t == nil {
		return nil, report, nil
	}
	rr, err := l.bind(t, report.Table,
		[]string{"fixture_id", "fixture_date", "fixture_competition", "fixture_home", "fixture_away"},
		[]string{"fixture_structure", "fixture_field_postal_code"})
	if err != nil {
		return nil, report, err
	}

	out := make([]model.Fixture, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := cleanID(rr.get(row, "fixture_id"))
		if id == "" {
			l.skip(&report, i+2, "empty fixture id")
			continue
		}
		date, err := dateparse.Parse(rr.get(row, "fixture_date"))
		if err != nil {
			l.skip(&report, i+2, err.Error())
			continue
		}
		out = append(out, model.Fixture{
			ID:              id,
			Date:            date,
			Competition:     rr.get(row, "fixture_competition"),
			Home:            rr.get(row, "fixture_home"),
			Away:            rr.get(row, "fixture_away"),
			Structure:       rr.get(row, "fixture_structure"),
			FieldPostalCode: model.NormalizePostalCode(rr.get(row, "fixture_field_postal_code")),
		})
	}
	report.Loaded = len(out)
	return out, report, nil
}

// Referees converts the referee roster.
func (l *Loader) Referees(t *model.Table) ([]model.Referee, LoadReport, error) {
	report := LoadReport{Table: config.SourceReferees, Rows: t.Len()}
	if t == nil {
		return nil, report, nil
	}
	rr, err := l.bind(t, report.Table,
		[]string{"referee_affiliation", "referee_surname", "referee_given_name", "referee_category", "referee_department"},
		[]string{"referee_club_code", "referee_club", "referee_matches_wanted"})
	if err != nil {
		return nil, report, err
	}

	out := make([]model.Referee, 0, len(t.Rows))
	for i, row := range t.Rows {
		aff := cleanID(rr.get(row, "referee_affiliation"))
		if aff == "" {
			l.skip(&report, i+2, "empty affiliation")
			continue
		}
		wanted, _ := parseLevel(rr.get(row, "referee_matches_wanted"))
		out = append(out, model.Referee{
			Affiliation:   aff,
			Surname:       rr.get(row, "referee_surname"),
			GivenName:     rr.get(row, "referee_given_name"),
			Category:      rr.get(row, "referee_category"),
			Department:    model.NormalizeDepartment(rr.get(row, "referee_department")),
			ClubCode:      rr.get(row, "referee_club_code"),
			Club:          rr.get(row, "referee_club"),
			MatchesWanted: wanted,
		})
	}
	report.Loaded = len(out)
	return out, report, nil
}

// Clubs converts the club reference table.
func (l *Loader) Clubs(t *model.Table) ([]model.Club, LoadReport, error) {
	report := LoadReport{Table: config.SourceClubs, Rows: t.Len()}
	if t == nil {
		return nil, report, nil
	}
	rr, err := l.bind(t, report.Table, []string{"club_name", "club_postal_code"}, []string{"club_code"})
	if err != nil {
		return nil, report, err
	}

	out := make([]model.Club, 0, len(t.Rows))
	for i, row := range t.Rows {
		c := model.Club{
			Code:       rr.get(row, "club_code"),
			Name:       rr.get(row, "club_name"),
			PostalCode: model.NormalizePostalCode(rr.get(row, "club_postal_code")),
		}
		if c.Code == "" && c.Name == "" {
			l.skip(&report, i+2, "no code nor name")
			continue
		}
		out = append(out, c)
	}
	report.Loaded = len(out)
	return out, report, nil
}

// Categories converts the category table.
func (l *Loader) Categories(t *model.Table) ([]model.Category, LoadReport, error) {
	report := LoadReport{Table: config.SourceCategories, Rows: t.Len()}
	if t == nil {
		return nil, report, nil
	}
	rr, err := l.bind(t, report.Table, []string{"category_name", "category_level"}, nil)
	if err != nil {
		return nil, report, err
	}

	out := make([]model.Category, 0, len(t.Rows))
	for i, row := range t.Rows {
		level, ok := parseLevel(rr.get(row, "category_level"))
		name := rr.get(row, "category_name")
		if !ok || name == "" {
			l.skip(&report, i+2, "invalid category level")
			continue
		}
		out = append(out, model.Category{Name: name, Level: level})
	}
	report.Loaded = len(out)
	return out, report, nil
}

// Competitions converts the competition band table.
func (l *Loader) Competitions(t *model.Table) ([]model.Competition, LoadReport, error) {
	report := LoadReport{Table: config.SourceCompetitions, Rows: t.Len()}
	if t == nil {
		return nil, report, nil
	}
	rr, err := l.bind(t, report.Table, []string{"competition_name", "competition_min", "competition_max"}, nil)
	if err != nil {
		return nil, report, err
	}

	out := make([]model.Competition, 0, len(t.Rows))
	for i, row := range t.Rows {
		name := rr.get(row, "competition_name")
		lo, okLo := parseLevel(rr.get(row, "competition_min"))
		hi, okHi := parseLevel(rr.get(row, "competition_max"))
		if name == "" || !okLo || !okHi {
			l.skip(&report, i+2, "invalid competition band")
			continue
		}
		out = append(out, model.Competition{Name: name, MinLevel: lo, MaxLevel: hi})
	}
	report.Loaded = len(out)
	return out, report, nil
}

// Availability converts the availability declarations.
func (l *Loader) Availability(t *model.Table) ([]model.AvailabilityRecord, LoadReport, error) {
	report := LoadReport{Table: config.SourceAvailability, Rows: t.Len()}
	if t == nil {
		return nil, report, nil
	}
	rr, err := l.bind(t, report.Table,
		[]string{"availability_licence", "availability_date", "availability_status"},
		[]string{"availability_conflict"})
	if err != nil {
		return nil, report, err
	}

	out := make([]model.AvailabilityRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		aff := cleanID(rr.get(row, "availability_licence"))
		if aff == "" {
			l.skip(&report, i+2, "empty licence")
			continue
		}
		date, err := dateparse.Parse(rr.get(row, "availability_date"))
		if err != nil {
			l.skip(&report, i+2, err.Error())
			continue
		}
		out = append(out, model.AvailabilityRecord{
			Affiliation: aff,
			Date:        date,
			Status:      rr.get(row, "availability_status"),
			Conflict:    cleanID(rr.get(row, "availability_conflict")),
		})
	}
	report.Loaded = len(out)
	return out, report, nil
}

// Federation converts the federation designation export. Blank referee
// cells become model.ToDesignate so unfilled posts stay countable.
func (l *Loader) Federation(t *model.Table) ([]model.Assignment, LoadReport, error) {
	report := LoadReport{Table: config.SourceFederation, Rows: t.Len()}
	if t == nil {
		return nil, report, nil
	}
	rr, err := l.bind(t, report.Table,
		[]string{"federation_fixture_id", "federation_role", "federation_surname"},
		[]string{"federation_given_name", "federation_department", "federation_affiliation",
			"federation_competition", "federation_home", "federation_away", "federation_date",
			"federation_field_postal_code"})
	if err != nil {
		return nil, report, err
	}

	orDesignate := func(s string) string {
		if s == "" {
			return model.ToDesignate
		}
		return s
	}
	out := make([]model.Assignment, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := cleanID(rr.get(row, "federation_fixture_id"))
		if id == "" {
			l.skip(&report, i+2, "empty fixture id")
			continue
		}
		rawRole := orDesignate(rr.get(row, "federation_role"))
		role, ok := model.ParseRole(rawRole)
		if !ok {
			role = model.Role(rawRole)
		}
		a := model.Assignment{
			FixtureID:   id,
			Role:        role,
			Surname:     orDesignate(rr.get(row, "federation_surname")),
			GivenName:   orDesignate(rr.get(row, "federation_given_name")),
			Department:  model.NormalizeDepartment(rr.get(row, "federation_department")),
			Affiliation: cleanID(rr.get(row, "federation_affiliation")),
			Competition: rr.get(row, "federation_competition"),
			Home:        rr.get(row, "federation_home"),
			Away:        rr.get(row, "federation_away"),
			Source:      model.SourceFederation,
		}
		if pc := model.NormalizePostalCode(rr.get(row, "federation_field_postal_code")); len(pc) >= 2 {
			a.FieldDepartment = pc[:2]
		}
		if d, err := dateparse.Parse(rr.get(row, "federation_date")); err == nil {
			a.Date = d
		}
		out = append(out, a)
	}
	report.Loaded = len(out)
	return out, report, nil
}

// cleanID trims identifiers and drops the ".0" spreadsheets append to
// numbers read as floats.
func cleanID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.Atoi(strings.TrimSuffix(s, ".0")); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}

func parseLevel(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
