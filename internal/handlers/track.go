package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/garageos/workshop-manager/internal/db"
	"github.com/garageos/workshop-manager/internal/models"
	"github.com/garageos/workshop-manager/internal/workflow"
)

// TrackHandler serves the public, unauthenticated tracking page. It exposes
// only status-level information, never customer or billing data.
type TrackHandler struct {
	jobs       db.JobCollection
	collection *mongo.Collection // raw handle for change streams
}

// NewTrackHandler creates a new tracking handler
func NewTrackHandler(jobs db.JobCollection, collection *mongo.Collection) *TrackHandler {
	return &TrackHandler{jobs: jobs, collection: collection}
}

// TrackResponse is the public view of a job.
type TrackResponse struct {
	JobID        string             `json:"job_id"`
	Registration string             `json:"registration"`
	Model        string             `json:"model"`
	Status       models.JobStatus   `json:"status"`
	PauseReason  string             `json:"pause_reason,omitempty"`
	Progress     int                `json:"progress"`
	StatusLogs   []models.StatusLog `json:"status_logs"`
}

func publicView(job *models.Job) TrackResponse {
	return TrackResponse{
		JobID:        job.ID.Hex(),
		Registration: job.Registration,
		Model:        job.Model,
		Status:       job.Status,
		PauseReason:  job.PauseReason,
		Progress:     workflow.Progress(job),
		StatusLogs:   job.StatusLogs,
	}
}

// Track handles GET /api/track/{key}. The key is a job id or a registration
// number; registrations resolve to the vehicle's most recent job.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	job, err := h.lookup(r, r.PathValue("key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicView(job))
}

// Events handles GET /api/track/{id}/events: a stream of the job's public
// state, pushed on every change. Newline-delimited JSON; the subscription
// lives exactly as long as the request and is torn down when the client
// disconnects.
func (h *TrackHandler) Events(w http.ResponseWriter, r *http.Request) {
	job, err := h.lookup(r, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	watcher, err := db.WatchJob(r.Context(), h.collection, job.ID.Hex())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer watcher.Close(r.Context())

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	// First snapshot immediately, then one line per change.
	if err := encoder.Encode(publicView(job)); err != nil {
		return
	}
	flusher.Flush()

	for {
		updated, err := watcher.Next(r.Context())
		if err != nil {
			if r.Context().Err() == nil {
				log.WithError(err).Warn("Job event stream ended")
			}
			return
		}
		if err := encoder.Encode(publicView(updated)); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (h *TrackHandler) lookup(r *http.Request, key string) (*models.Job, error) {
	if _, err := primitive.ObjectIDFromHex(key); err == nil {
		return h.jobs.FindJobByID(r.Context(), key)
	}
	return h.jobs.FindJobByRegistration(r.Context(), key)
}
