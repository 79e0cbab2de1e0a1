package api

import (
	"errors"
	"net/http"

	"RefDesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusOf maps service errors to HTTP codes.
func statusOf(err error) int {
	var (
		ve *service.ValidationError
		se *service.StoreError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &se):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrFixtureNotFound),
		errors.Is(err, service.ErrCompetitionNotFound),
		errors.Is(err, service.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFederationAssignment), errors.Is(err, service.ErrRoleAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoRefereesLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	code := statusOf(err)
	entry := logger.WithError(err).WithFields(logrus.Fields{"op": op, "status": code})
	if code >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	body := gin.H{"error": err.Error()}
	var ve *service.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		body["fields"] = ve.Fields
	}
	c.JSON(code, body)
}
