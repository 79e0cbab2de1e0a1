package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts every endpoint on r.
func RegisterRoutes(r *gin.Engine, ref *ReferenceHandler, des *DesignationHandler) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g := r.Group("/api")
	g.POST("/refresh", ref.Refresh)
	g.GET("/dashboard", ref.Dashboard)
	g.GET("/issues", ref.Issues)
	g.GET("/fixtures", ref.ListFixtures)
	g.GET("/fixtures/:id", ref.GetFixture)
	g.GET("/referees/:affiliation/status", ref.RefereeStatus)
	g.GET("/clubs/resolve", ref.ResolveClub)
	g.GET("/availability", ref.Availability)

	g.GET("/fixtures/:id/candidates", des.Candidates)
	g.GET("/fixtures/:id/roles", des.Roles)
	g.GET("/fixtures/:id/assignments", des.FixtureAssignments)
	g.GET("/assignments", des.ListAssignments)
	g.POST("/assignments", des.Record)
	g.DELETE("/assignments", des.Remove)
	g.POST("/assignments/cancel", des.CancelRemoval)
	g.GET("/recap", des.Recap)
	g.GET("/federation/stats", des.FederationStats)
}
