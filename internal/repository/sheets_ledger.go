package repository

import (
	"context"
	"fmt"
	"strings"

	"RefDesk/internal/config"
	"RefDesk/internal/interfaces"
	"RefDesk/internal/model"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetsLedger stores designations in one tab of a Google spreadsheet: a
// header row (model.LedgerHeader) followed by one row per designation.
type sheetsLedger struct {
	svc    *sheets.Service
	cfg    config.SheetsConfig
	logger *logrus.Logger
}

// NewSheetsLedger connects with the service account in cfg.CredentialsFile
// unless opts are supplied.
func NewSheetsLedger(ctx context.Context, cfg *config.SheetsConfig, logger *logrus.Logger, opts ...option.ClientOption) (interfaces.LedgerStore, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets ledger: spreadsheet id is required")
	}
	if len(opts) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, fmt.Errorf("sheets ledger: credentials file is required")
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets ledger: %w", err)
	}
	return &sheetsLedger{svc: svc, cfg: *cfg, logger: logger}, nil
}

func (s *sheetsLedger) Name() string { return "sheets" }

func (s *sheetsLedger) rangeA1() string {
	return fmt.Sprintf("%s!A:%s", s.cfg.SheetName, columnLetter(len(model.LedgerHeader)))
}

func (s *sheetsLedger) ReadAll(ctx context.Context) ([]model.Assignment, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.rangeA1()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.cfg.SheetName, err)
	}
	rows := resp.Values
	if len(rows) > 0 && isHeader(rows[0]) {
		rows = rows[1:]
	}
	out := make([]model.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.AssignmentFromLedger(interfaces.FromCells(row)))
	}
	return out, nil
}

func (s *sheetsLedger) Append(ctx context.Context, a model.Assignment) error {
	if err := s.ensureHeader(ctx); err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{toRow(a.LedgerValues())}}
	_, err := s.svc.Spreadsheets.Values.Append(s.cfg.SpreadsheetID, s.rangeA1(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", s.cfg.SheetName, err)
	}
	return nil
}

func (s *sheetsLedger) Rewrite(ctx context.Context, rows []model.Assignment) error {
	if _, err := s.svc.Spreadsheets.Values.Clear(s.cfg.SpreadsheetID, s.rangeA1(), &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", s.cfg.SheetName, err)
	}
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toRow(model.LedgerHeader))
	for _, a := range rows {
		values = append(values, toRow(a.LedgerValues()))
	}
	_, err := s.svc.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, s.cfg.SheetName+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", s.cfg.SheetName, err)
	}
	s.logger.WithField("rows", len(rows)).Info("ledger sheet rewritten")
	return nil
}

// DeleteAt removes the data row at position; row 0 of the tab is the header.
func (s *sheetsLedger) DeleteAt(ctx context.Context, position int) error {
	if position < 0 {
		return fmt.Errorf("invalid ledger position %d", position)
	}
	start := int64(position + 1)
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.cfg.SheetID,
					Dimension:  "ROWS",
					StartIndex: start,
					EndIndex:   start + 1,
					// sheet 0 is the first tab and must still be sent
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.cfg.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of sheet %s: %w", position, s.cfg.SheetName, err)
	}
	return nil
}

// ensureHeader writes the header row on an empty tab so that positions stay
// offset by one.
func (s *sheetsLedger) ensureHeader(ctx context.Context) error {
	first := s.cfg.SheetName + "!A1:A1"
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, first).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", s.cfg.SheetName, err)
	}
	if len(resp.Values) > 0 {
		return nil
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, s.cfg.SheetName+"!A1", &sheets.ValueRange{Values: [][]interface{}{toRow(model.LedgerHeader)}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header of sheet %s: %w", s.cfg.SheetName, err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	return interfaces.ToCells(values)
}

func isHeader(row []interface{}) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), model.LedgerHeader[0])
}

// columnLetter converts a 1-based column number to its A1 letters.
func columnLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
