package csvsource

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"RefDesk/internal/adapter"
	"RefDesk/internal/config"
	"RefDesk/internal/interfaces"
	"RefDesk/internal/model"
	"RefDesk/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Kind is the registry key of this adapter.
const Kind = "csv"

func init() {
	adapter.Register(Kind, New)
}

// Source reads a delimited text export from a file or URL.
type Source struct {
	name       string
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// New builds a csv source.
func New(name string, cfg *config.SourceConfig, logger *logrus.Logger) (interfaces.TableSource, error) {
	if cfg.Location == "" {
		return nil, fmt.Errorf("csv source %s: location is required", name)
	}
	if cfg.Delimiter != "" && utf8.RuneCountInString(cfg.Delimiter) != 1 {
		return nil, fmt.Errorf("csv source %s: delimiter must be a single character, got %q", name, cfg.Delimiter)
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

// Fetch downloads or opens the file and parses it.
func (s *Source) Fetch(ctx context.Context) (*model.Table, error) {
	rc, err := adapter.Open(ctx, s.httpClient, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.WithError(err).WithField("source", s.name).Warn("close csv source failed")
		}
	}()

	var delim rune
	if s.cfg.Delimiter != "" {
		delim, _ = utf8.DecodeRuneInString(s.cfg.Delimiter)
	}
	table, err := Parse(rc, delim)
	if err != nil {
		return nil, fmt.Errorf("csv source %s: %w", s.name, err)
	}
	table.Name = s.name
	return table, nil
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a header row followed by data rows. A zero delimiter is sniffed
// from the header line (';' for French exports, ',' otherwise). Blank lines
// are skipped and short rows padded to the header width.
func Parse(r io.Reader, delimiter rune) (*model.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}
	if delimiter == 0 {
		delimiter = sniffDelimiter(br)
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	table := &model.Table{Header: header, Rows: make([][]string, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

func sniffDelimiter(br *bufio.Reader) rune {
	line, _ := br.Peek(4096)
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
