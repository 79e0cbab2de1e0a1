package repository

import (
	"context"
	"fmt"
	"sync"

	"RefDesk/internal/interfaces"
	"RefDesk/internal/model"
)

// MemoryLedger keeps designations in process. It is the default backend and
// the store used by tests; FailWith makes every call return an error.
type MemoryLedger struct {
	mu   sync.Mutex
	rows []model.Assignment
	fail error
}

var _ interfaces.LedgerStore = (*MemoryLedger)(nil)

// NewMemoryLedger returns a store seeded with rows.
func NewMemoryLedger(rows ...model.Assignment) *MemoryLedger {
	return &MemoryLedger{rows: append([]model.Assignment(nil), rows...)}
}

// FailWith sets the error returned by every subsequent call; nil clears it.
func (m *MemoryLedger) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *MemoryLedger) Name() string { return "memory" }

func (m *MemoryLedger) ReadAll(_ context.Context) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	return append([]model.Assignment(nil), m.rows...), nil
}

func (m *MemoryLedger) Append(_ context.Context, a model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.rows = append(m.rows, a)
	return nil
}

func (m *MemoryLedger) Rewrite(_ context.Context, rows []model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.rows = append([]model.Assignment(nil), rows...)
	return nil
}

func (m *MemoryLedger) DeleteAt(_ context.Context, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if position < 0 || position >= len(m.rows) {
		return fmt.Errorf("no designation at position %d", position)
	}
	m.rows = append(m.rows[:position], m.rows[position+1:]...)
	return nil
}
