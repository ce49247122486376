package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/garageos/workshop-manager/internal/analytics"
	"github.com/garageos/workshop-manager/internal/db"
)

// AnalyticsHandler serves the supervisor dashboard and technician
// leaderboard. Figures are derived fresh on each request from the loaded job
// set; nothing is stored.
type AnalyticsHandler struct {
	jobs  db.JobCollection
	hours analytics.ShopHours
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(jobs db.JobCollection, hours analytics.ShopHours) *AnalyticsHandler {
	return &AnalyticsHandler{jobs: jobs, hours: hours}
}

// Dashboard handles GET /api/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.FindJobs(r.Context(), bson.M{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.BuildDashboard(jobs, time.Now(), h.hours))
}

// Technicians handles GET /api/analytics/technicians
func (h *AnalyticsHandler) Technicians(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.FindJobs(r.Context(), bson.M{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.TechnicianLeaderboard(jobs))
}
