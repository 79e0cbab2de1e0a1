package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"RefDesk/internal/interfaces"
	"RefDesk/internal/metrics"
	"RefDesk/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RecordRequest asks for one referee to be designated on one fixture. Names
// and department are taken from the roster when left empty.
type RecordRequest struct {
	FixtureID       string `json:"fixture_id"`
	Role            string `json:"role"`
	Affiliation     string `json:"affiliation"`
	Surname         string `json:"surname,omitempty"`
	GivenName       string `json:"given_name,omitempty"`
	Department      string `json:"department,omitempty"`
	FieldDepartment string `json:"field_department,omitempty"`
}

// assignmentInput is what must be present before a row is written.
type assignmentInput struct {
	FixtureID   string `validate:"required"`
	Role        string `validate:"required"`
	Surname     string `validate:"required"`
	GivenName   string `validate:"required"`
	Affiliation string `validate:"required,max=32"`
}

// RemoveRequest identifies a manual designation. RowID wins when set;
// otherwise fixture, role and affiliation (or names) must match.
type RemoveRequest struct {
	RowID       string `json:"row_id,omitempty"`
	FixtureID   string `json:"fixture_id,omitempty"`
	Role        string `json:"role,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	Surname     string `json:"surname,omitempty"`
	GivenName   string `json:"given_name,omitempty"`
}

func (r RemoveRequest) target() string {
	if r.RowID != "" {
		return "row:" + r.RowID
	}
	role, _ := model.ParseRole(r.Role)
	return strings.Join([]string{r.FixtureID, string(role), r.Affiliation,
		strings.ToUpper(r.Surname), strings.ToUpper(r.GivenName)}, "|")
}

func (r RemoveRequest) validate() error {
	if r.RowID != "" {
		return nil
	}
	fields := map[string]string{}
	if r.FixtureID == "" {
		fields["fixture_id"] = "is required without row_id"
	}
	if _, ok := model.ParseRole(r.Role); !ok {
		fields["role"] = "is not a known role"
	}
	if r.Affiliation == "" && r.Surname == "" {
		fields["affiliation"] = "or surname is required without row_id"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields, Err: errors.New("incomplete removal request")}
	}
	return nil
}

func (r RemoveRequest) matches(a model.Assignment) bool {
	if r.RowID != "" {
		return a.RowID == r.RowID
	}
	role, _ := model.ParseRole(r.Role)
	if a.FixtureID != r.FixtureID || a.Role != role {
		return false
	}
	if r.Affiliation != "" {
		return a.Affiliation == r.Affiliation
	}
	return strings.EqualFold(a.Surname, r.Surname) &&
		(r.GivenName == "" || strings.EqualFold(a.GivenName, r.GivenName))
}

// RolesFilled returns the roles held on a fixture across both sources.
// Placeholder federation rows and unknown roles do not fill a slot.
func RolesFilled(fixtureID string, federation, manual []model.Assignment) map[model.Role]struct{} {
	filled := make(map[model.Role]struct{})
	for _, rows := range [][]model.Assignment{federation, manual} {
		for _, a := range rows {
			if a.FixtureID != fixtureID || a.IsPlaceholder() {
				continue
			}
			if role, ok := model.ParseRole(string(a.Role)); ok {
				filled[role] = struct{}{}
			}
		}
	}
	return filled
}

// LedgerService records and removes manual designations.
type LedgerService struct {
	store     interfaces.LedgerStore
	snapshots *SnapshotService
	removals  *RemovalTracker
	logger    *logrus.Logger
	now       func() time.Time
}

func NewLedgerService(store interfaces.LedgerStore, snapshots *SnapshotService, removals *RemovalTracker, logger *logrus.Logger) *LedgerService {
	return &LedgerService{
		store:     store,
		snapshots: snapshots,
		removals:  removals,
		logger:    logger,
		now:       time.Now,
	}
}

// Manual returns every manual designation in ledger order.
func (s *LedgerService) Manual(ctx context.Context) ([]model.Assignment, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, s.storeError("read", err)
	}
	return rows, nil
}

// Combined returns federation then manual designations of a fixture.
func (s *LedgerService) Combined(ctx context.Context, fixtureID string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range s.snapshots.Current().Federation {
		if a.FixtureID == fixtureID {
			out = append(out, a)
		}
	}
	manual, err := s.Manual(ctx)
	if err != nil {
		return out, err
	}
	for _, a := range manual {
		if a.FixtureID == fixtureID {
			out = append(out, a)
		}
	}
	return out, nil
}

// RolesFilled returns the filled roles of a fixture in display order.
func (s *LedgerService) RolesFilled(ctx context.Context, fixtureID string) ([]model.Role, error) {
	manual, err := s.Manual(ctx)
	if err != nil {
		return nil, err
	}
	filled := RolesFilled(fixtureID, s.snapshots.Current().Federation, manual)
	out := make([]model.Role, 0, len(filled))
	for _, r := range model.Roles {
		if _, ok := filled[r]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// RecordAssignment appends one designation with the full fixture context.
// The field department defaults to the home club's department.
func (s *LedgerService) RecordAssignment(ctx context.Context, req RecordRequest) (model.Assignment, error) {
	snap := s.snapshots.Current()
	fixture, ok := snap.Fixture(strings.TrimSpace(req.FixtureID))
	if !ok {
		return model.Assignment{}, fmt.Errorf("%w: %s", ErrFixtureNotFound, req.FixtureID)
	}

	affiliation := strings.TrimSpace(req.Affiliation)
	surname, given, dept := strings.TrimSpace(req.Surname), strings.TrimSpace(req.GivenName), req.Department
	for _, ref := range snap.Referees {
		if ref.Affiliation != affiliation || affiliation == "" {
			continue
		}
		if surname == "" {
			surname = ref.Surname
		}
		if given == "" {
			given = ref.GivenName
		}
		if dept == "" {
			dept = ref.Department
		}
		break
	}

	input := assignmentInput{
		FixtureID:   fixture.ID,
		Role:        strings.TrimSpace(req.Role),
		Surname:     surname,
		GivenName:   given,
		Affiliation: affiliation,
	}
	if err := validate.Struct(input); err != nil {
		metrics.LedgerOperationsTotal.WithLabelValues("append", "invalid").Inc()
		return model.Assignment{}, newValidationError(err)
	}
	role, ok := model.ParseRole(input.Role)
	if !ok {
		metrics.LedgerOperationsTotal.WithLabelValues("append", "invalid").Inc()
		return model.Assignment{}, &ValidationError{
			Fields: map[string]string{"Role": "is not a known role"},
			Err:    fmt.Errorf("unknown role %q", input.Role),
		}
	}

	// Federation rows are not counted: a manual designation may replace one.
	manual, err := s.Manual(ctx)
	if err != nil {
		metrics.LedgerOperationsTotal.WithLabelValues("append", "error").Inc()
		return model.Assignment{}, err
	}
	for _, m := range manual {
		if m.FixtureID == fixture.ID && m.Role == role {
			metrics.LedgerOperationsTotal.WithLabelValues("append", "duplicate").Inc()
			s.logger.WithFields(logrus.Fields{
				"fixture_id":  fixture.ID,
				"role":        role,
				"affiliation": m.Affiliation,
			}).Warn("role already assigned")
			return model.Assignment{}, fmt.Errorf("%w: %s %s", ErrRoleAlreadyAssigned, fixture.ID, role)
		}
	}

	field := strings.TrimSpace(req.FieldDepartment)
	if field == "" {
		field = ResolveDepartment(fixture.Home, snap.Clubs)
		if field == model.NotFound && len(fixture.FieldPostalCode) >= 2 {
			field = fixture.FieldPostalCode[:2]
		}
	}

	a := model.Assignment{
		RowID:           uuid.NewString(),
		FixtureID:       fixture.ID,
		Role:            role,
		Surname:         surname,
		GivenName:       given,
		Department:      model.NormalizeDepartment(dept),
		Affiliation:     affiliation,
		Date:            fixture.Date,
		Structure:       fixture.Structure,
		Competition:     fixture.Competition,
		Home:            fixture.Home,
		Away:            fixture.Away,
		FieldDepartment: field,
		Source:          model.SourceManual,
		RecordedAt:      s.now().UTC(),
	}
	if err := s.store.Append(ctx, a); err != nil {
		metrics.LedgerOperationsTotal.WithLabelValues("append", "error").Inc()
		return model.Assignment{}, s.storeError("append", err)
	}
	metrics.LedgerOperationsTotal.WithLabelValues("append", "ok").Inc()
	s.logger.WithFields(logrus.Fields{
		"fixture_id":  a.FixtureID,
		"role":        a.Role,
		"affiliation": a.Affiliation,
		"row_id":      a.RowID,
	}).Info("designation recorded")
	return a, nil
}

// RemoveAssignment deletes a manual designation in two calls from the same
// session: the first arms the removal, the second, within the confirmation
// timeout, deletes the first matching row.
func (s *LedgerService) RemoveAssignment(ctx context.Context, session string, req RemoveRequest) (RemovalState, error) {
	if err := req.validate(); err != nil {
		return RemovalIdle, err
	}
	target := req.target()

	rows, err := s.Manual(ctx)
	if err != nil {
		return RemovalIdle, err
	}
	pos := -1
	for i, a := range rows {
		if req.matches(a) {
			pos = i
			break
		}
	}
	if pos < 0 {
		s.removals.Cancel(session)
		for _, a := range s.snapshots.Current().Federation {
			if !a.IsPlaceholder() && req.matches(a) {
				return RemovalIdle, ErrFederationAssignment
			}
		}
		return RemovalIdle, ErrAssignmentNotFound
	}

	if !s.removals.Take(session, target) {
		s.removals.Arm(session, target)
		return RemovalArmed, nil
	}

	if err := s.store.DeleteAt(ctx, pos); err != nil {
		metrics.LedgerOperationsTotal.WithLabelValues("delete", "error").Inc()
		return RemovalIdle, s.storeError("delete", err)
	}
	metrics.LedgerOperationsTotal.WithLabelValues("delete", "ok").Inc()
	s.logger.WithFields(logrus.Fields{
		"fixture_id":  rows[pos].FixtureID,
		"role":        rows[pos].Role,
		"affiliation": rows[pos].Affiliation,
		"position":    pos,
	}).Info("designation removed")
	return RemovalConfirmed, nil
}

// CancelRemoval drops the armed removal of session.
func (s *LedgerService) CancelRemoval(session string) RemovalState {
	return s.removals.Cancel(session)
}

// Rewrite replaces the whole ledger. Rows without an id get one.
func (s *LedgerService) Rewrite(ctx context.Context, rows []model.Assignment) error {
	out := make([]model.Assignment, len(rows))
	for i, a := range rows {
		if a.RowID == "" {
			a.RowID = uuid.NewString()
		}
		a.Source = model.SourceManual
		out[i] = a
	}
	if err := s.store.Rewrite(ctx, out); err != nil {
		metrics.LedgerOperationsTotal.WithLabelValues("rewrite", "error").Inc()
		return s.storeError("rewrite", err)
	}
	metrics.LedgerOperationsTotal.WithLabelValues("rewrite", "ok").Inc()
	s.logger.WithField("rows", len(out)).Info("ledger rewritten")
	return nil
}

func (s *LedgerService) storeError(op string, err error) error {
	s.logger.WithError(err).WithFields(logrus.Fields{"store": s.store.Name(), "op": op}).Error("ledger store failure")
	return &StoreError{Op: op, Store: s.store.Name(), Err: err}
}
