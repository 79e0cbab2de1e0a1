package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"RefDesk/internal/adapter"
	"RefDesk/internal/adapter/static"
	"RefDesk/internal/config"
	"RefDesk/internal/metrics"
	"RefDesk/internal/model"

	"github.com/sirupsen/logrus"
)

// Issue kinds recorded on a snapshot.
const (
	IssueAbsent = "absent" // source not configured
	IssueFetch  = "fetch"  // source could not be read
	IssueSchema = "schema" // required columns missing
	IssueEmpty  = "empty"  // table has no usable row
)

// Issue is a data-absence notice for one table.
type Issue struct {
	Table   string `json:"table"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Snapshot is an immutable view of every reference table. Handlers read the
// current snapshot and never mutate it.
type Snapshot struct {
	Fixtures       []model.Fixture
	Referees       []model.Referee
	Clubs          *ClubIndex
	CategoryList   []model.Category
	Categories     CategoryLevels
	CompetitionSet []model.Competition
	Competitions   *CompetitionBands
	Availability   []model.AvailabilityRecord
	Federation     []model.Assignment
	Reports        []LoadReport
	Issues         []Issue
	LoadedAt       time.Time

	fixtureByID map[string]int
}

// EmptySnapshot is served before the first refresh.
func EmptySnapshot() *Snapshot {
	return newSnapshot(nil, nil, nil, nil, nil, nil, nil)
}

func newSnapshot(fixtures []model.Fixture, referees []model.Referee, clubs []model.Club,
	categories []model.Category, competitions []model.Competition,
	availability []model.AvailabilityRecord, federation []model.Assignment) *Snapshot {
	s := &Snapshot{
		Fixtures:       fixtures,
		Referees:       referees,
		Clubs:          NewClubIndex(clubs),
		CategoryList:   categories,
		Categories:     NewCategoryLevels(categories),
		CompetitionSet: competitions,
		Competitions:   NewCompetitionBands(competitions),
		Availability:   availability,
		Federation:     federation,
		fixtureByID:    make(map[string]int, len(fixtures)),
	}
	sort.SliceStable(s.Fixtures, func(i, j int) bool { return s.Fixtures[i].Date.Before(s.Fixtures[j].Date) })
	for i, f := range s.Fixtures {
		if _, ok := s.fixtureByID[f.ID]; !ok {
			s.fixtureByID[f.ID] = i
		}
	}
	return s
}

// Fixture returns the fixture with this id.
func (s *Snapshot) Fixture(id string) (model.Fixture, bool) {
	i, ok := s.fixtureByID[id]
	if !ok {
		return model.Fixture{}, false
	}
	return s.Fixtures[i], true
}

// HasIssue reports whether table was flagged on load.
func (s *Snapshot) HasIssue(table string) bool {
	for _, is := range s.Issues {
		if is.Table == table {
			return true
		}
	}
	return false
}

// BuildSnapshot converts raw tables keyed by source name. A nil table is
// recorded as absent; schema errors empty the table and are recorded too.
func BuildSnapshot(loader *Loader, tables map[string]*model.Table) *Snapshot {
	var (
		issues  []Issue
		reports []LoadReport
	)
	note := func(table string, report LoadReport, err error) {
		reports = append(reports, report)
		var se *SchemaError
		switch {
		case errors.As(err, &se):
			issues = append(issues, Issue{Table: table, Kind: IssueSchema, Message: se.Error()})
		case err != nil:
			issues = append(issues, Issue{Table: table, Kind: IssueFetch, Message: err.Error()})
		case tables[table] == nil:
			issues = append(issues, Issue{Table: table, Kind: IssueAbsent, Message: "table " + table + " not loaded"})
		case report.Loaded == 0:
			issues = append(issues, Issue{Table: table, Kind: IssueEmpty, Message: "table " + table + " has no usable row"})
		}
	}

	fixtures, r, err := loader.Fixtures(tables[config.SourceFixtures])
	note(config.SourceFixtures, r, err)
	referees, r, err := loader.Referees(tables[config.SourceReferees])
	note(config.SourceReferees, r, err)
	clubs, r, err := loader.Clubs(tables[config.SourceClubs])
	note(config.SourceClubs, r, err)
	categories, r, err := loader.Categories(tables[config.SourceCategories])
	note(config.SourceCategories, r, err)
	competitions, r, err := loader.Competitions(tables[config.SourceCompetitions])
	note(config.SourceCompetitions, r, err)
	availability, r, err := loader.Availability(tables[config.SourceAvailability])
	note(config.SourceAvailability, r, err)
	federation, r, err := loader.Federation(tables[config.SourceFederation])
	note(config.SourceFederation, r, err)

	s := newSnapshot(fixtures, referees, clubs, categories, competitions, availability, federation)
	s.Reports = reports
	s.Issues = issues
	s.LoadedAt = time.Now()
	return s
}

// SnapshotService owns the current snapshot and rebuilds it on demand.
type SnapshotService struct {
	sources *adapter.SourceRegistry
	loader  *Loader
	logger  *logrus.Logger

	mu      sync.RWMutex
	current *Snapshot
}

func NewSnapshotService(sources *adapter.SourceRegistry, loader *Loader, logger *logrus.Logger) *SnapshotService {
	return &SnapshotService{
		sources: sources,
		loader:  loader,
		logger:  logger,
		current: EmptySnapshot(),
	}
}

// sourceNames lists every table of a snapshot.
var sourceNames = []string{
	config.SourceFixtures, config.SourceReferees, config.SourceClubs, config.SourceCategories,
	config.SourceCompetitions, config.SourceAvailability, config.SourceFederation,
}

// Refresh fetches every table and swaps the snapshot in one step. Source
// failures leave the table empty and are listed in Snapshot.Issues; only a
// cancelled context aborts the refresh.
func (s *SnapshotService) Refresh(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	tables := make(map[string]*model.Table, len(sourceNames))
	var fetchIssues []Issue

	for _, name := range sourceNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := s.sources.Get(name)
		if err != nil {
			switch name {
			case config.SourceCategories:
				tables[name] = static.CategoryTable()
			case config.SourceCompetitions:
				tables[name] = static.CompetitionTable()
			default:
				s.logger.WithField("source", name).Warn("source not configured")
			}
			continue
		}
		t, err := src.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.WithError(err).WithField("source", name).Warn("source fetch failed, table treated as empty")
			fetchIssues = append(fetchIssues, Issue{Table: name, Kind: IssueFetch, Message: err.Error()})
			continue
		}
		tables[name] = t
	}

	snap := BuildSnapshot(s.loader, tables)
	// a failed fetch replaces the generic "absent" notice for its table
	for _, fi := range fetchIssues {
		for i := range snap.Issues {
			if snap.Issues[i].Table == fi.Table {
				snap.Issues[i] = fi
			}
		}
	}

	for _, r := range snap.Reports {
		metrics.TableRows.WithLabelValues(r.Table).Set(float64(r.Loaded))
	}
	for _, is := range snap.Issues {
		metrics.SourceIssuesTotal.WithLabelValues(is.Table, is.Kind).Inc()
		s.logger.WithFields(logrus.Fields{"table": is.Table, "kind": is.Kind}).Warn(is.Message)
	}
	metrics.SnapshotRefreshDuration.Observe(time.Since(start).Seconds())

	s.Replace(snap)
	s.logger.WithFields(logrus.Fields{
		"fixtures": len(snap.Fixtures),
		"referees": len(snap.Referees),
		"clubs":    snap.Clubs.Len(),
		"issues":   len(snap.Issues),
		"elapsed":  time.Since(start).String(),
	}).Info("reference data refreshed")
	return snap, nil
}

// Current returns the last loaded snapshot.
func (s *SnapshotService) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace installs snap as the current snapshot.
func (s *SnapshotService) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
}
