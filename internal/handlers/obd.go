package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/garageos/workshop-manager/internal/analytics"
	"github.com/garageos/workshop-manager/internal/db"
	"github.com/garageos/workshop-manager/internal/models"
)

// OBDHandler serves the diagnostic knowledge base and the task suggester.
type OBDHandler struct {
	codes db.OBDCollection
}

// NewOBDHandler creates a new OBD knowledge handler
func NewOBDHandler(codes db.OBDCollection) *OBDHandler {
	return &OBDHandler{codes: codes}
}

// ListCodes handles GET /api/obd with an optional severity filter
func (h *OBDHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if severity := r.URL.Query().Get("severity"); severity != "" {
		filter["severity"] = severity
	}
	codes, err := h.codes.FindCodes(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

// CreateCode handles POST /api/obd
func (h *OBDHandler) CreateCode(w http.ResponseWriter, r *http.Request) {
	var code models.OBDCode
	if err := json.NewDecoder(r.Body).Decode(&code); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	code.Code = strings.ToUpper(strings.TrimSpace(code.Code))
	if code.Code == "" || code.Title == "" {
		writeError(w, http.StatusBadRequest, "Code and title are required")
		return
	}

	existing, err := h.codes.ExistingCodes(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if existing[code.Code] {
		writeError(w, http.StatusConflict, "Code already exists")
		return
	}

	if _, err := h.codes.InsertCodes(r.Context(), []models.OBDCode{code}); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, code)
}

// Seed handles POST /api/obd/seed. Idempotent: codes already stored are
// skipped, so re-running a completed seed inserts nothing.
func (h *OBDHandler) Seed(w http.ResponseWriter, r *http.Request) {
	inserted, err := db.SeedOBDCodes(r.Context(), h.codes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	log.WithField("inserted", inserted).Info("OBD knowledge seeded")
	writeJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

// Suggest handles GET /api/obd/suggest?q=...&limit=n
func (h *OBDHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	knowledge, err := h.codes.FindCodes(r.Context(), bson.M{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	suggestions := analytics.SuggestTasks(query, knowledge, limit)
	if suggestions == nil {
		suggestions = []analytics.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}
