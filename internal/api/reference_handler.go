package api

import (
	"net/http"
	"strings"
	"time"

	"RefDesk/internal/model"
	"RefDesk/internal/service"
	"RefDesk/internal/utils/dateparse"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReferenceHandler serves the loaded reference data.
type ReferenceHandler struct {
	snapshots *service.SnapshotService
	logger    *logrus.Logger
	now       func() time.Time
}

func NewReferenceHandler(snapshots *service.SnapshotService, logger *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{snapshots: snapshots, logger: logger, now: time.Now}
}

// Refresh reloads every source table.
// POST /api/refresh
func (h *ReferenceHandler) Refresh(c *gin.Context) {
	snap, err := h.snapshots.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "refresh", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"loaded_at": snap.LoadedAt,
		"reports":   snap.Reports,
		"issues":    snap.Issues,
	})
}

// Dashboard GET /api/dashboard
func (h *ReferenceHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, service.BuildDashboard(h.snapshots.Current(), h.now()))
}

// ListFixtures GET /api/fixtures?competition=&from=&to=
func (h *ReferenceHandler) ListFixtures(c *gin.Context) {
	filter := service.FixtureFilter{Competition: c.Query("competition")}
	var ok bool
	if filter.From, ok = queryDate(c, "from"); !ok {
		return
	}
	if filter.To, ok = queryDate(c, "to"); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"fixtures": service.ListFixtures(h.snapshots.Current(), filter)})
}

// fixtureView is a fixture with its clubs resolved.
type fixtureView struct {
	model.Fixture
	HomeDepartment string            `json:"home_department"`
	AwayDepartment string            `json:"away_department"`
	HomePostalCode string            `json:"home_postal_code"`
	AwayPostalCode string            `json:"away_postal_code"`
	HomeMatch      service.MatchKind `json:"home_match"`
	AwayMatch      service.MatchKind `json:"away_match"`
}

// GetFixture GET /api/fixtures/:id
func (h *ReferenceHandler) GetFixture(c *gin.Context) {
	snap := h.snapshots.Current()
	f, ok := snap.Fixture(c.Param("id"))
	if !ok {
		writeError(c, h.logger, "get fixture", service.ErrFixtureNotFound)
		return
	}
	view := fixtureView{
		Fixture:        f,
		HomeDepartment: service.ResolveDepartment(f.Home, snap.Clubs),
		AwayDepartment: service.ResolveDepartment(f.Away, snap.Clubs),
		HomePostalCode: service.ResolvePostalCode(f.Home, snap.Clubs),
		AwayPostalCode: service.ResolvePostalCode(f.Away, snap.Clubs),
	}
	_, view.HomeMatch = service.ResolveClub(f.Home, snap.Clubs)
	_, view.AwayMatch = service.ResolveClub(f.Away, snap.Clubs)
	c.JSON(http.StatusOK, view)
}

// RefereeStatus returns the availability of one referee for a date or a
// fixture.
// GET /api/referees/:affiliation/status?date=27/10/2024 | ?fixture_id=R1
func (h *ReferenceHandler) RefereeStatus(c *gin.Context) {
	snap := h.snapshots.Current()
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	if id := c.Query("fixture_id"); id != "" {
		f, found := snap.Fixture(id)
		if !found {
			writeError(c, h.logger, "referee status", service.ErrFixtureNotFound)
			return
		}
		date = f.Date
	}
	if date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date or fixture_id is required"})
		return
	}
	aff := c.Param("affiliation")
	c.JSON(http.StatusOK, gin.H{
		"affiliation": aff,
		"date":        dateparse.Format(date),
		"status":      service.StatusFor(aff, date, snap.Availability),
	})
}

// ResolveClub GET /api/clubs/resolve?label=STADE ROCHELAIS (SRO)
func (h *ReferenceHandler) ResolveClub(c *gin.Context) {
	label := c.Query("label")
	if strings.TrimSpace(label) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}
	club, kind := service.ResolveClub(label, h.snapshots.Current().Clubs)
	resp := gin.H{"label": label, "match": kind, "department": model.NotFound, "postal_code": model.NotFound}
	if kind != service.MatchNone {
		resp["club"] = club
		resp["department"] = club.Department()
		if club.PostalCode != "" {
			resp["postal_code"] = club.PostalCode
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Availability returns the referee x day grid. The range defaults to the
// fixture range of the snapshot.
// GET /api/availability?from=&to=&category=
func (h *ReferenceHandler) Availability(c *gin.Context) {
	snap := h.snapshots.Current()
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	if len(snap.Fixtures) > 0 {
		if from.IsZero() {
			from = snap.Fixtures[0].Date
		}
		if to.IsZero() {
			to = snap.Fixtures[len(snap.Fixtures)-1].Date
		}
	}
	if from.IsZero() || to.IsZero() {
		c.JSON(http.StatusOK, service.AvailabilityGrid{Dates: []string{}, Rows: []service.GridRow{}})
		return
	}

	referees := snap.Referees
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		referees = nil
		for _, r := range snap.Referees {
			if strings.EqualFold(strings.TrimSpace(r.Category), cat) {
				referees = append(referees, r)
			}
		}
	}
	c.JSON(http.StatusOK, service.Grid(snap.Availability, referees, from, to))
}

// Issues GET /api/issues
func (h *ReferenceHandler) Issues(c *gin.Context) {
	snap := h.snapshots.Current()
	c.JSON(http.StatusOK, gin.H{"issues": snap.Issues, "reports": snap.Reports, "loaded_at": snap.LoadedAt})
}

// queryDate parses an optional date parameter; a bad value answers 400.
func queryDate(c *gin.Context, key string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, true
	}
	t, err := dateparse.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + ": " + err.Error()})
		return time.Time{}, false
	}
	return t, true
}
