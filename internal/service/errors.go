package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrCompetitionNotFound  = errors.New("competition not found")
	ErrNoRefereesLoaded     = errors.New("no referees loaded")
	ErrFixtureNotFound      = errors.New("fixture not found")
	ErrAssignmentNotFound   = errors.New("assignment not found in the manual ledger")
	ErrFederationAssignment = errors.New("federation designations cannot be removed")
	ErrRoleAlreadyAssigned  = errors.New("role already assigned for this fixture")
)

// SchemaError reports required columns missing from a source table.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s: missing required columns %s", e.Table, strings.Join(e.Missing, ", "))
}

// StoreError wraps a ledger backend failure. Nothing was written when it is
// returned from a write.
type StoreError struct {
	Op    string
	Store string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.Store, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ValidationError lists invalid fields of a request.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request: " + e.Err.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, k := range sortedKeys(e.Fields) {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

func newValidationError(err error) *ValidationError {
	ve := &ValidationError{Fields: map[string]string{}, Err: err}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			ve.Fields[fe.Field()] = "failed " + fe.Tag()
		}
	}
	return ve
}
