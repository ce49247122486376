package handlers

import (
	"net/http"

	"github.com/garageos/workshop-manager/internal/analytics"
	"github.com/garageos/workshop-manager/internal/db"
)

// BillingHandler serves derived invoices.
type BillingHandler struct {
	jobs db.JobCollection
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(jobs db.JobCollection) *BillingHandler {
	return &BillingHandler{jobs: jobs}
}

// GetBill handles GET /api/bill/{id}. The invoice is recomputed from the
// job's stored line items on every request; tax lines are unrounded floats
// and only the grand total is a whole figure.
func (h *BillingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.FindJobByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.BuildInvoice(job))
}
