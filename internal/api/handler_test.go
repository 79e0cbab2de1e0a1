package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"RefDesk/internal/adapter"
	"RefDesk/internal/adapter/static"
	"RefDesk/internal/config"
	"RefDesk/internal/interfaces"
	"RefDesk/internal/model"
	"RefDesk/internal/repository"
	"RefDesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableSource struct{ t *model.Table }

func (s tableSource) Name() string                                  { return s.t.Name }
func (s tableSource) Kind() string                                  { return "memory" }
func (s tableSource) Fetch(_ context.Context) (*model.Table, error) { return s.t, nil }

func sources() []interfaces.TableSource {
	tables := []*model.Table{
		{Name: config.SourceFixtures,
			Header: []string{"RENCONTRE NUMERO", "DATE EFFECTIVE", "COMPETITION NOM", "LOCAUX", "VISITEURS"},
			Rows: [][]string{
				{"R1", "27/10/2024 15:00", "Fédérale 1", "STADE ROCHELAIS (SRO)", "CA BRIVE"},
			}},
		{Name: config.SourceReferees,
			Header: []string{"Numéro Affiliation", "Nom", "Prénom", "Catégorie", "Département de Résidence"},
			Rows: [][]string{
				{"100", "ALPHA", "Anne", "Divisionnaires 1", "33"},
				{"103", "DELTA", "Dan", "Divisionnaires 1", "17"},
			}},
		{Name: config.SourceClubs,
			Header: []string{"CODE", "Nom", "CP"},
			Rows: [][]string{
				{"SRO", "STADE ROCHELAIS", "17000"},
				{"CAB", "CA BRIVE CORREZE LIMOUSIN", "19100"},
			}},
		{Name: config.SourceAvailability,
			Header: []string{"NO LICENCE", "DATE", "DISPONIBILITE"},
			Rows:   [][]string{{"100", "26/10/2024", "OUI"}}},
		{Name: config.SourceFederation,
			Header: []string{"NUMERO RENCONTRE", "FONCTION ARBITRE", "NOM", "PRENOM", "NUMERO AFFILIATION"},
			Rows:   [][]string{{"R1", "Arbitre", "FEDE", "Fred", "900"}}},
		static.CategoryTable(),
		static.CompetitionTable(),
	}
	out := make([]interfaces.TableSource, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableSource{t})
	}
	return out
}

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryLedger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	snaps := service.NewSnapshotService(adapter.NewStaticRegistry(logger, sources()...),
		service.NewLoader(&config.Config{}, logger), logger)
	_, err := snaps.Refresh(context.Background())
	require.NoError(t, err)

	store := repository.NewMemoryLedger()
	ledger := service.NewLedgerService(store, snaps, service.NewRemovalTracker(time.Minute), logger)

	r := gin.New()
	ref := NewReferenceHandler(snaps, logger)
	ref.now = func() time.Time { return time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC) }
	RegisterRoutes(r, ref, NewDesignationHandler(snaps, ledger, config.SessionConfig{}, logger))
	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestCandidatesEndpoint(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/api/fixtures/R1/candidates", "")
	require.Equal(t, http.StatusOK, code)
	cands := body["candidates"].([]any)
	require.Len(t, cands, 1)
	first := cands[0].(map[string]any)
	assert.Equal(t, "100", first["referee"].(map[string]any)["affiliation"])
	assert.Equal(t, true, first["designable"])

	code, _ = s.do(t, http.MethodGet, "/api/fixtures/R404/candidates", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRecordAndRemoveEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":"R1","role":"AA1","affiliation":"100"}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "ALPHA", body["surname"])
	assert.Equal(t, "17", body["field_department"])

	code, body = s.do(t, http.MethodGet, "/api/fixtures/R1/roles", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"ARBITRE", "ARBITRE ASSISTANT 1"}, body["filled"])

	code, body = s.do(t, http.MethodGet, "/api/fixtures/R1/assignments", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["assignments"], 2)

	del := `{"fixture_id":"R1","role":"AA1","affiliation":"100"}`
	code, body = s.do(t, http.MethodDelete, "/api/assignments", del, "X-Designator-Session", "alice")
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "armed", body["state"])

	code, body = s.do(t, http.MethodDelete, "/api/assignments", del, "X-Designator-Session", "alice")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmed", body["state"])

	code, body = s.do(t, http.MethodGet, "/api/assignments", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["assignments"])
}

func TestRemoveCancel(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":"R1","role":"AA1","affiliation":"100"}`)
	require.Equal(t, http.StatusCreated, code)

	del := `{"fixture_id":"R1","role":"AA1","affiliation":"100"}`
	code, _ = s.do(t, http.MethodDelete, "/api/assignments", del)
	assert.Equal(t, http.StatusAccepted, code)

	code, body := s.do(t, http.MethodPost, "/api/assignments/cancel", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", body["state"])

	code, _ = s.do(t, http.MethodDelete, "/api/assignments", del)
	assert.Equal(t, http.StatusAccepted, code, "a cancelled removal must be armed again")
}

func TestAssignmentErrors(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":"R1","role":"ARBITRE","affiliation":"555"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["fields"], "Surname")

	code, _ = s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":"R9","role":"ARBITRE","affiliation":"100"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodDelete, "/api/assignments", `{"fixture_id":"R1","role":"ARBITRE","affiliation":"900"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodDelete, "/api/assignments", `{"fixture_id":"R1","role":"ARBITRE","affiliation":"100"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":"R1","role":"AA1","affiliation":"100"}`)
	require.Equal(t, http.StatusCreated, code)
	code, body = s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":"R1","role":"AA1","affiliation":"103"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["error"], "role already assigned")

	s.store.FailWith(errors.New("sheet locked"))
	code, body = s.do(t, http.MethodPost, "/api/assignments", `{"fixture_id":"R1","role":"ARBITRE","affiliation":"100"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, body["error"], "sheet locked")

	// candidates survive a ledger outage
	code, body = s.do(t, http.MethodGet, "/api/fixtures/R1/candidates", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["trace"].(map[string]any)["ledger_unavailable"])
}

func TestReferenceEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/api/referees/100/status?date=27/10/2024", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "available", body["status"].(map[string]any)["kind"])

	code, body = s.do(t, http.MethodGet, "/api/referees/103/status?fixture_id=R1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unknown", body["status"].(map[string]any)["kind"])

	code, _ = s.do(t, http.MethodGet, "/api/referees/100/status?date=soon", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodGet, "/api/referees/100/status", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(t, http.MethodGet, "/api/clubs/resolve?label=STADE+ROCHELAIS+(SRO)", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "17", body["department"])
	assert.Equal(t, "code", body["match"])

	code, body = s.do(t, http.MethodGet, "/api/clubs/resolve?label=NOWHERE", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.NotFound, body["department"])

	code, body = s.do(t, http.MethodGet, "/api/fixtures/R1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "19", body["away_department"])
	assert.Equal(t, "17000", body["home_postal_code"])
	assert.Equal(t, "longest-name", body["away_match"])

	code, body = s.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["fixtures"])
	assert.Equal(t, false, body["stale"])

	code, body = s.do(t, http.MethodGet, "/api/availability?from=26/10/2024&to=27/10/2024", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"26/10/2024", "27/10/2024"}, body["dates"])
	assert.Len(t, body["rows"], 2)

	code, body = s.do(t, http.MethodGet, "/api/federation/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["stats"].(map[string]any)["filled"])

	code, body = s.do(t, http.MethodGet, "/api/recap", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["rows"], 1)

	code, body = s.do(t, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["issues"])

	code, _ = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, code)
}
