package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/garageos/workshop-manager/internal/db"
	"github.com/garageos/workshop-manager/internal/events"
	"github.com/garageos/workshop-manager/internal/middleware"
	"github.com/garageos/workshop-manager/internal/models"
	"github.com/garageos/workshop-manager/internal/workflow"
)

// JobHandler serves the job-card surface: CRUD, workflow transitions, task
// toggles and the part-request sub-flow. Every status mutation goes through
// the workflow engine; there is no raw status write.
type JobHandler struct {
	jobs      db.JobCollection
	inventory db.InventoryCollection
	users     db.UserCollection
	publisher events.Publisher
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs db.JobCollection, inventory db.InventoryCollection, users db.UserCollection, publisher events.Publisher) *JobHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &JobHandler{jobs: jobs, inventory: inventory, users: users, publisher: publisher}
}

// CreateJob handles POST /api/jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if models.NormalizeRegistration(job.Registration) == "" {
		writeError(w, http.StatusBadRequest, "Registration number is required")
		return
	}
	if job.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "Customer name is required")
		return
	}
	if job.Status != "" && !models.IsValidStatus(job.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	// Resolve the technician display name from the stable id.
	if job.TechnicianID != "" {
		tech, err := h.users.FindUserByID(r.Context(), job.TechnicianID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unknown technician")
			return
		}
		job.TechnicianName = tech.DisplayName()
	}

	id, err := h.jobs.InsertJob(r.Context(), job)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := h.jobs.FindJobByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	log.WithFields(log.Fields{"job_id": id, "registration": created.Registration}).Info("Job created")
	writeJSON(w, http.StatusCreated, created)
}

// ListJobs handles GET /api/jobs with optional status and technician filters
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.IsValidStatus(models.JobStatus(status)) {
			writeError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter["status"] = status
	}
	if tech := r.URL.Query().Get("technician_id"); tech != "" {
		filter["technician_id"] = tech
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	jobs, err := h.jobs.FindJobs(r.Context(), filter, opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetJob handles GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.FindJobByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// PatchJob handles PATCH /api/jobs/{id}: field-level edits of vehicle,
// customer and line-item data. Workflow fields are rejected; those go
// through the transition and part-request endpoints.
func (h *JobHandler) PatchJob(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	for _, guarded := range []string{"status", "version", "part_requests", "status_logs", "created_at", "completed_at"} {
		if _, ok := fields[guarded]; ok {
			writeError(w, http.StatusBadRequest, "Field cannot be patched: "+guarded)
			return
		}
	}
	if reg, ok := fields["registration"].(string); ok && models.NormalizeRegistration(reg) == "" {
		writeError(w, http.StatusBadRequest, "Registration number cannot be empty")
		return
	}

	if err := h.jobs.PatchJob(r.Context(), r.PathValue("id"), bson.M(fields)); err != nil {
		writeDomainError(w, err)
		return
	}
	job, err := h.jobs.FindJobByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// DeleteJob handles DELETE /api/jobs/{id}
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.DeleteJob(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}

// Transition handles POST /api/jobs/{id}/transition
func (h *JobHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target models.JobStatus `json:"target"`
		Reason string           `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	job, err := h.mutateJob(r.Context(), r.PathValue("id"), func(job *models.Job) (*models.Job, error) {
		return workflow.AttemptTransition(job, req.Target, req.Reason, time.Now())
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.publishStatus(job)
	claims, _ := middleware.GetUserFromContext(r.Context())
	entry := log.WithFields(log.Fields{"job_id": job.ID.Hex(), "status": job.Status})
	if claims != nil {
		entry = entry.WithField("actor", claims.Username)
	}
	entry.Info("Job transitioned")
	writeJSON(w, http.StatusOK, job)
}

// ToggleTask handles POST /api/jobs/{id}/tasks/toggle
func (h *JobHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Block int `json:"block"`
		Step  int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	job, err := h.mutateJob(r.Context(), r.PathValue("id"), func(job *models.Job) (*models.Job, error) {
		next, err := workflow.ToggleStep(job, req.Block, req.Step)
		if err != nil {
			return nil, err
		}
		next.UpdatedAt = time.Now()
		return next, nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// RaisePartRequest handles POST /api/jobs/{id}/part-requests
func (h *JobHandler) RaisePartRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	requestID := primitive.NewObjectID().Hex()
	job, err := h.mutateJob(r.Context(), r.PathValue("id"), func(job *models.Job) (*models.Job, error) {
		return workflow.RaisePartRequest(job, requestID, req.Name, time.Now())
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.publishStatus(job)
	log.WithFields(log.Fields{"job_id": job.ID.Hex(), "part": req.Name}).Info("Part request raised")
	writeJSON(w, http.StatusOK, job)
}

// ApprovePartRequest handles POST /api/jobs/{id}/part-requests/{rid}/approve
func (h *JobHandler) ApprovePartRequest(w http.ResponseWriter, r *http.Request) {
	// Snapshot the price list once; approval is a pure function of job and
	// catalog.
	items, err := h.inventory.FindItems(r.Context(), bson.M{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	catalog := make(workflow.MapCatalog, len(items))
	for _, item := range items {
		catalog[item.Name] = item.Price
	}

	requestID := r.PathValue("rid")
	job, err := h.mutateJob(r.Context(), r.PathValue("id"), func(job *models.Job) (*models.Job, error) {
		return workflow.ApproveRequest(job, requestID, catalog, time.Now())
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.publishStatus(job)
	log.WithFields(log.Fields{"job_id": job.ID.Hex(), "request_id": requestID}).Info("Part request approved")
	writeJSON(w, http.StatusOK, job)
}

// mutateJob runs a read-modify-write cycle under the job's version token,
// retrying once when a concurrent writer got there first.
func (h *JobHandler) mutateJob(ctx context.Context, id string, mutate func(*models.Job) (*models.Job, error)) (*models.Job, error) {
	for attempt := 0; ; attempt++ {
		job, err := h.jobs.FindJobByID(ctx, id)
		if err != nil {
			return nil, err
		}
		next, err := mutate(job)
		if err != nil {
			return nil, err
		}
		err = h.jobs.ReplaceJob(ctx, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, db.ErrVersionConflict) || attempt >= 1 {
			return nil, err
		}
	}
}

func (h *JobHandler) publishStatus(job *models.Job) {
	h.publisher.PublishStatus(events.StatusEvent{
		JobID:        job.ID.Hex(),
		Registration: job.Registration,
		Status:       job.Status,
		Time:         job.UpdatedAt,
	})
}
