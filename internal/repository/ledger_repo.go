package repository

import (
	"context"
	"errors"
	"fmt"

	"RefDesk/internal/interfaces"
	"RefDesk/internal/model"

	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository returns the postgres-backed ledger store. Rows are kept
// in insertion order by their autoincrement id.
func NewLedgerRepository(db *gorm.DB) interfaces.LedgerStore {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Name() string { return "postgres" }

func (r *ledgerRepository) ReadAll(ctx context.Context) ([]model.Assignment, error) {
	var rows []model.DesignationRow
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list designations: %w", err)
	}
	out := make([]model.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Assignment())
	}
	return out, nil
}

func (r *ledgerRepository) Append(ctx context.Context, a model.Assignment) error {
	row, err := model.NewDesignationRow(a)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert designation: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Rewrite(ctx context.Context, assignments []model.Assignment) error {
	rows := make([]*model.DesignationRow, 0, len(assignments))
	for _, a := range assignments {
		row, err := model.NewDesignationRow(a)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.DesignationRow{}).Error; err != nil {
			return fmt.Errorf("clear designations: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("insert designations: %w", err)
		}
		return nil
	})
}

func (r *ledgerRepository) DeleteAt(ctx context.Context, position int) error {
	if position < 0 {
		return fmt.Errorf("invalid ledger position %d", position)
	}
	var row model.DesignationRow
	err := r.db.WithContext(ctx).Order("id ASC").Offset(position).Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no designation at position %d", position)
	}
	if err != nil {
		return fmt.Errorf("locate designation: %w", err)
	}
	if err := r.db.WithContext(ctx).Delete(&model.DesignationRow{}, row.ID).Error; err != nil {
		return fmt.Errorf("delete designation %d: %w", row.ID, err)
	}
	return nil
}
