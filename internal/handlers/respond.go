package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/garageos/workshop-manager/internal/db"
	"github.com/garageos/workshop-manager/internal/workflow"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps store and workflow errors onto the HTTP surface:
// missing documents are 404, guard failures and lost update races are 409,
// anything else is a logged 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, db.ErrVersionConflict):
		writeError(w, http.StatusConflict, "job was modified concurrently, reload and retry")
	case errors.Is(err, workflow.ErrPendingPartRequests):
		writeError(w, http.StatusConflict, "part requests are still pending approval")
	case errors.Is(err, workflow.ErrIncompleteTasks):
		writeError(w, http.StatusConflict, "task checklist is not complete")
	case errors.Is(err, workflow.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrPauseReasonRequired),
		errors.Is(err, workflow.ErrPartNameRequired),
		errors.Is(err, workflow.ErrStepNotFound),
		errors.Is(err, workflow.ErrRequestNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrAlreadyApproved):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
