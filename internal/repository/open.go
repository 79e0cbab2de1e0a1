package repository

import (
	"context"
	"fmt"

	"RefDesk/internal/config"
	"RefDesk/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// OpenLedger builds the ledger store selected by cfg.Ledger.Backend.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.LedgerStore, error) {
	switch cfg.Ledger.Backend {
	case "", config.LedgerMemory:
		logger.Warn("memory ledger in use, designations are lost on restart")
		return NewMemoryLedger(), nil
	case config.LedgerPostgres:
		db, err := OpenPostgres(&cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		return NewLedgerRepository(db), nil
	case config.LedgerSheets:
		return NewSheetsLedger(ctx, &cfg.Ledger.Sheets, logger)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}
