package interfaces

import (
	"context"

	"RefDesk/internal/config"
	"RefDesk/internal/model"

	"github.com/sirupsen/logrus"
)

// TableSource yields one raw table (fixtures, referees, clubs ...).
type TableSource interface {
	Name() string                                    // logical source name, e.g. "fixtures"
	Kind() string                                    // adapter kind, e.g. "xlsx"
	Fetch(ctx context.Context) (*model.Table, error) // read the whole table
}

// SourceFactory builds a TableSource of one kind from its config.
type SourceFactory func(name string, cfg *config.SourceConfig, logger *logrus.Logger) (TableSource, error)
