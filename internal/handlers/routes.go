package handlers

import (
	"net/http"

	"github.com/garageos/workshop-manager/internal/middleware"
	"github.com/garageos/workshop-manager/internal/models"
)

// Router bundles the handlers behind the page routes' API surface.
type Router struct {
	Auth      *AuthHandler
	Jobs      *JobHandler
	Inventory *InventoryHandler
	Analytics *AnalyticsHandler
	Billing   *BillingHandler
	Track     *TrackHandler
	OBD       *OBDHandler
	AuthMW    *middleware.AuthMiddleware
}

// Handler builds the route table. Authentication wraps everything; public
// endpoints are skipped inside the middleware. Role gates mirror the portals:
// technicians work their job cards, supervisors run the floor, admins own
// inventory, delivery, users and the knowledge base.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("POST /api/auth/login", rt.Auth.Login)
	mux.HandleFunc("POST /api/auth/register", rt.Auth.Register)
	mux.HandleFunc("GET /api/auth/profile", rt.Auth.GetProfile)
	mux.HandleFunc("PUT /api/auth/profile", rt.Auth.UpdateProfile)
	mux.HandleFunc("POST /api/auth/password", rt.Auth.ChangePassword)
	mux.Handle("GET /api/users/technicians", rt.require("view_jobs", rt.Auth.ListTechnicians))

	// Jobs
	mux.HandleFunc("GET /api/jobs", rt.Jobs.ListJobs)
	mux.Handle("POST /api/jobs", rt.require("create_job", rt.Jobs.CreateJob))
	mux.HandleFunc("GET /api/jobs/{id}", rt.Jobs.GetJob)
	mux.Handle("PATCH /api/jobs/{id}", rt.require("edit_job", rt.Jobs.PatchJob))
	mux.Handle("DELETE /api/jobs/{id}", rt.require("delete_job", rt.Jobs.DeleteJob))
	mux.Handle("POST /api/jobs/{id}/transition", rt.require("request_completion", rt.Jobs.Transition))
	mux.Handle("POST /api/jobs/{id}/tasks/toggle", rt.require("toggle_task", rt.Jobs.ToggleTask))
	mux.Handle("POST /api/jobs/{id}/part-requests", rt.require("raise_part_request", rt.Jobs.RaisePartRequest))
	mux.Handle("POST /api/jobs/{id}/part-requests/{rid}/approve", rt.require("approve_part_request", rt.Jobs.ApprovePartRequest))

	// Inventory
	mux.Handle("GET /api/inventory", rt.require("view_inventory", rt.Inventory.ListItems))
	mux.Handle("POST /api/inventory", rt.require("manage_inventory", rt.Inventory.CreateItem))
	mux.Handle("GET /api/inventory/alerts", rt.require("view_inventory", rt.Inventory.StockAlerts))
	mux.Handle("GET /api/inventory/{id}", rt.require("view_inventory", rt.Inventory.GetItem))
	mux.Handle("PATCH /api/inventory/{id}", rt.require("manage_inventory", rt.Inventory.PatchItem))
	mux.Handle("DELETE /api/inventory/{id}", rt.require("manage_inventory", rt.Inventory.DeleteItem))

	// Analytics
	mux.Handle("GET /api/analytics/dashboard", rt.require("view_analytics", rt.Analytics.Dashboard))
	mux.Handle("GET /api/analytics/technicians", rt.require("view_analytics", rt.Analytics.Technicians))

	// Billing
	mux.Handle("GET /api/bill/{id}", rt.require("view_bill", rt.Billing.GetBill))

	// Public tracking
	mux.HandleFunc("GET /api/track/{key}", rt.Track.Track)
	mux.HandleFunc("GET /api/track/{id}/events", rt.Track.Events)

	// OBD knowledge base
	mux.Handle("GET /api/obd", rt.require("view_obd", rt.OBD.ListCodes))
	mux.Handle("POST /api/obd", rt.requireRole(models.RoleAdmin, rt.OBD.CreateCode))
	mux.Handle("POST /api/obd/seed", rt.requireRole(models.RoleAdmin, rt.OBD.Seed))
	mux.Handle("GET /api/obd/suggest", rt.require("view_obd", rt.OBD.Suggest))

	rateLimiter := middleware.NewRateLimitMiddleware()
	return rateLimiter.RateLimit(300, 60)(rt.AuthMW.Authenticate(mux))
}

func (rt *Router) require(action string, h http.HandlerFunc) http.Handler {
	return rt.AuthMW.RequirePermission(action)(h)
}

func (rt *Router) requireRole(role models.Role, h http.HandlerFunc) http.Handler {
	return rt.AuthMW.RequireRole(role)(h)
}
