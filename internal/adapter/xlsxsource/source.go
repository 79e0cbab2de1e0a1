package xlsxsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"RefDesk/internal/adapter"
	"RefDesk/internal/config"
	"RefDesk/internal/interfaces"
	"RefDesk/internal/model"
	"RefDesk/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Kind is the registry key of this adapter.
const Kind = "xlsx"

func init() {
	adapter.Register(Kind, New)
}

// Source reads one sheet of a workbook, typically a Google Sheets
// export?format=xlsx link.
type Source struct {
	name       string
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// New builds an xlsx source.
func New(name string, cfg *config.SourceConfig, logger *logrus.Logger) (interfaces.TableSource, error) {
	if cfg.Location == "" {
		return nil, fmt.Errorf("xlsx source %s: location is required", name)
	}
	return &Source{
		name:       name,
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}, nil
}

func (s *Source) Name() string { return s.name }
func (s *Source) Kind() string { return Kind }

// Fetch opens the workbook and reads the configured sheet.
func (s *Source) Fetch(ctx context.Context) (*model.Table, error) {
	rc, err := adapter.Open(ctx, s.httpClient, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.WithError(err).WithField("source", s.name).Warn("close xlsx source failed")
		}
	}()

	table, err := Parse(rc, s.cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx source %s: %w", s.name, err)
	}
	table.Name = s.name
	s.logger.WithFields(logrus.Fields{"source": s.name, "rows": table.Len()}).Debug("xlsx sheet read")
	return table, nil
}

// Parse reads sheet (the first sheet when empty) with raw cell values, so
// dates come back as serial numbers and codes keep their stored digits.
func Parse(r io.Reader, sheet string) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheet")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	table := &model.Table{Header: header, Rows: make([][]string, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
