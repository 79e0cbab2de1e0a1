package api

import (
	"net/http"
	"strings"

	"RefDesk/internal/config"
	"RefDesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DesignationHandler serves candidate searches and the assignment ledger.
type DesignationHandler struct {
	eligibility *service.EligibilityService
	ledger      *service.LedgerService
	snapshots   *service.SnapshotService
	session     config.SessionConfig
	logger      *logrus.Logger
}

func NewDesignationHandler(snapshots *service.SnapshotService, ledger *service.LedgerService, session config.SessionConfig, logger *logrus.Logger) *DesignationHandler {
	if session.Header == "" {
		session.Header = "X-Designator-Session"
	}
	if session.Default == "" {
		session.Default = "default"
	}
	return &DesignationHandler{
		eligibility: service.NewEligibilityService(snapshots, ledger, logger),
		ledger:      ledger,
		snapshots:   snapshots,
		session:     session,
		logger:      logger,
	}
}

func (h *DesignationHandler) sessionOf(c *gin.Context) string {
	if s := strings.TrimSpace(c.GetHeader(h.session.Header)); s != "" {
		return s
	}
	return h.session.Default
}

// Candidates GET /api/fixtures/:id/candidates
func (h *DesignationHandler) Candidates(c *gin.Context) {
	res, err := h.eligibility.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "candidates", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Roles GET /api/fixtures/:id/roles
func (h *DesignationHandler) Roles(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.snapshots.Current().Fixture(id); !ok {
		writeError(c, h.logger, "roles", service.ErrFixtureNotFound)
		return
	}
	filled, err := h.ledger.RolesFilled(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "roles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fixture_id": id, "filled": filled})
}

// FixtureAssignments lists federation then manual rows of a fixture.
// GET /api/fixtures/:id/assignments
func (h *DesignationHandler) FixtureAssignments(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.snapshots.Current().Fixture(id); !ok {
		writeError(c, h.logger, "fixture assignments", service.ErrFixtureNotFound)
		return
	}
	rows, err := h.ledger.Combined(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "fixture assignments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fixture_id": id, "assignments": rows})
}

// ListAssignments GET /api/assignments
func (h *DesignationHandler) ListAssignments(c *gin.Context) {
	rows, err := h.ledger.Manual(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list assignments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": rows})
}

// Record POST /api/assignments
func (h *DesignationHandler) Record(c *gin.Context) {
	var req service.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	a, err := h.ledger.RecordAssignment(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "record assignment", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// Remove is the two-step delete: the first call arms, the second confirms.
// DELETE /api/assignments
func (h *DesignationHandler) Remove(c *gin.Context) {
	var req service.RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	state, err := h.ledger.RemoveAssignment(c.Request.Context(), h.sessionOf(c), req)
	if err != nil {
		writeError(c, h.logger, "remove assignment", err)
		return
	}
	code := http.StatusOK
	if state == service.RemovalArmed {
		code = http.StatusAccepted
	}
	c.JSON(code, gin.H{"state": state})
}

// CancelRemoval POST /api/assignments/cancel
func (h *DesignationHandler) CancelRemoval(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.ledger.CancelRemoval(h.sessionOf(c))})
}

// Recap GET /api/recap?competition=A&competition=B&q=
func (h *DesignationHandler) Recap(c *gin.Context) {
	manual, err := h.ledger.Manual(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "recap", err)
		return
	}
	filter := service.RecapFilter{Competitions: c.QueryArray("competition"), Query: c.Query("q")}
	c.JSON(http.StatusOK, gin.H{"rows": service.Recap(h.snapshots.Current().Fixtures, manual, filter)})
}

// FederationStats GET /api/federation/stats?competition=&q=
func (h *DesignationHandler) FederationStats(c *gin.Context) {
	federation := h.snapshots.Current().Federation
	filter := service.RecapFilter{Competitions: c.QueryArray("competition"), Query: c.Query("q")}
	c.JSON(http.StatusOK, gin.H{
		"competitions": service.FederationCompetitions(federation),
		"stats":        service.ComputeFederationStats(federation, filter),
	})
}
