package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"RefDesk/internal/metrics"
	"RefDesk/internal/model"

	"github.com/sirupsen/logrus"
)

// Candidate is a referee who passed the band and neutrality stages.
type Candidate struct {
	Referee       model.Referee `json:"referee"`
	Level         int           `json:"level"`
	Status        Status        `json:"status"`
	Designable    bool          `json:"designable"`
	AssignedRoles []model.Role  `json:"assigned_roles,omitempty"`
}

// Trace records how the candidate list was narrowed.
type Trace struct {
	Competition         string   `json:"competition"`
	Low                 int      `json:"low"`
	High                int      `json:"high"`
	HomeDepartment      string   `json:"home_department"`
	AwayDepartment      string   `json:"away_department"`
	ExcludedDepartments []string `json:"excluded_departments"`
	Referees            int      `json:"referees"`
	UnknownCategory     int      `json:"unknown_category"`
	InBand              int      `json:"in_band"`
	Neutral             int      `json:"neutral"`
	Designable          int      `json:"designable"`
	LedgerUnavailable   bool     `json:"ledger_unavailable,omitempty"`
}

// EligibilityResult is the ordered candidate list for one fixture.
type EligibilityResult struct {
	Fixture    model.Fixture `json:"fixture"`
	Candidates []Candidate   `json:"candidates"`
	Trace      Trace         `json:"trace"`
}

// FindEligibleReferees filters the roster of snap for fixture: competency
// band, then neutrality against the home and away departments, then
// availability. Unavailable referees stay in the list with Designable false.
// Candidates are ordered by level, most qualified first. assigned, when
// given, annotates each candidate with the roles it already holds on the
// fixture.
func FindEligibleReferees(fixture model.Fixture, snap *Snapshot, assigned []model.Assignment) (*EligibilityResult, error) {
	res := &EligibilityResult{
		Fixture:    fixture,
		Candidates: []Candidate{},
		Trace:      Trace{Competition: fixture.Competition, Referees: len(snap.Referees)},
	}

	comp, ok := snap.Competitions.Lookup(fixture.Competition)
	if !ok {
		return res, fmt.Errorf("%w: %q", ErrCompetitionNotFound, fixture.Competition)
	}
	low, high := comp.Band()
	res.Trace.Low, res.Trace.High = low, high

	if len(snap.Referees) == 0 {
		return res, ErrNoRefereesLoaded
	}

	type banded struct {
		ref   model.Referee
		level int
	}
	var inBand []banded
	for _, ref := range snap.Referees {
		level, ok := snap.Categories.Level(ref.Category)
		if !ok {
			res.Trace.UnknownCategory++
			continue
		}
		if level >= low && level <= high {
			inBand = append(inBand, banded{ref: ref, level: level})
		}
	}
	res.Trace.InBand = len(inBand)

	home := ResolveDepartment(fixture.Home, snap.Clubs)
	away := ResolveDepartment(fixture.Away, snap.Clubs)
	res.Trace.HomeDepartment, res.Trace.AwayDepartment = home, away
	excluded := make(map[string]struct{}, 2)
	res.Trace.ExcludedDepartments = []string{}
	for _, d := range []string{home, away} {
		if d == model.NotFound {
			continue
		}
		if _, dup := excluded[d]; !dup {
			excluded[d] = struct{}{}
			res.Trace.ExcludedDepartments = append(res.Trace.ExcludedDepartments, d)
		}
	}

	rolesByAffiliation := make(map[string][]model.Role)
	for _, a := range assigned {
		if a.FixtureID != fixture.ID || a.IsPlaceholder() || a.Affiliation == "" {
			continue
		}
		rolesByAffiliation[a.Affiliation] = append(rolesByAffiliation[a.Affiliation], a.Role)
	}

	for _, b := range inBand {
		if _, out := excluded[b.ref.Department]; out {
			continue
		}
		st := StatusFor(b.ref.Affiliation, fixture.Date, snap.Availability)
		res.Candidates = append(res.Candidates, Candidate{
			Referee:       b.ref,
			Level:         b.level,
			Status:        st,
			Designable:    st.Designable,
			AssignedRoles: rolesByAffiliation[b.ref.Affiliation],
		})
		if st.Designable {
			res.Trace.Designable++
		}
	}
	res.Trace.Neutral = len(res.Candidates)

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Level < res.Candidates[j].Level
	})
	return res, nil
}

// EligibilityService runs candidate searches against the current snapshot.
type EligibilityService struct {
	snapshots *SnapshotService
	ledger    *LedgerService
	logger    *logrus.Logger
}

func NewEligibilityService(snapshots *SnapshotService, ledger *LedgerService, logger *logrus.Logger) *EligibilityService {
	return &EligibilityService{snapshots: snapshots, ledger: ledger, logger: logger}
}

// Candidates returns the eligible referees of a fixture. A ledger outage only
// drops the AssignedRoles annotation.
func (s *EligibilityService) Candidates(ctx context.Context, fixtureID string) (*EligibilityResult, error) {
	snap := s.snapshots.Current()
	fixture, ok := snap.Fixture(fixtureID)
	if !ok {
		metrics.EligibilitySearchesTotal.WithLabelValues("fixture_not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, fixtureID)
	}

	combined, err := s.ledger.Combined(ctx, fixtureID)
	ledgerDown := err != nil
	if ledgerDown {
		s.logger.WithError(err).WithField("fixture_id", fixtureID).Warn("ledger unreadable, assigned roles omitted")
	}

	res, err := FindEligibleReferees(fixture, snap, combined)
	if res != nil {
		res.Trace.LedgerUnavailable = ledgerDown
	}
	switch {
	case errors.Is(err, ErrCompetitionNotFound):
		metrics.EligibilitySearchesTotal.WithLabelValues("competition_not_found").Inc()
	case errors.Is(err, ErrNoRefereesLoaded):
		metrics.EligibilitySearchesTotal.WithLabelValues("no_referees").Inc()
	case err != nil:
		metrics.EligibilitySearchesTotal.WithLabelValues("error").Inc()
	default:
		metrics.EligibilitySearchesTotal.WithLabelValues("ok").Inc()
		s.logger.WithFields(logrus.Fields{
			"fixture_id": fixtureID,
			"candidates": len(res.Candidates),
			"designable": res.Trace.Designable,
		}).Debug("eligible referees computed")
	}
	return res, err
}
