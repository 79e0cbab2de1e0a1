package interfaces

import (
	"context"

	"RefDesk/internal/model"
)

// LedgerStore is the persistent list of manual designations. Positions are
// zero-based indexes into the slice returned by ReadAll and are only valid
// until the next write.
type LedgerStore interface {
	Name() string
	ReadAll(ctx context.Context) ([]model.Assignment, error)
	Append(ctx context.Context, a model.Assignment) error
	Rewrite(ctx context.Context, rows []model.Assignment) error
	DeleteAt(ctx context.Context, position int) error
}
