package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/garageos/workshop-manager/internal/models"
)

var (
	// ErrRequestNotFound rejects an approval for a request id not on the job.
	ErrRequestNotFound = errors.New("part request not found")
	// ErrAlreadyApproved rejects a second approval of the same request, so a
	// double click never bills the part twice.
	ErrAlreadyApproved = errors.New("part request already approved")
	// ErrPartNameRequired rejects raising a request with no part name.
	ErrPartNameRequired = errors.New("part name is required")
)

// Catalog resolves part names to unit prices. The inventory ledger is the
// production implementation.
type Catalog interface {
	PriceByName(name string) (float64, bool)
}

// MapCatalog is an in-memory Catalog built from a loaded inventory snapshot.
type MapCatalog map[string]float64

// PriceByName resolves a part name by exact match.
func (m MapCatalog) PriceByName(name string) (float64, bool) {
	price, ok := m[name]
	return price, ok
}

// RaisePartRequest appends a PENDING request and forces the job to
// WAITING_PARTS from whatever state it was in. Requests are append-only from
// the technician side. Returns a copy of the job.
func RaisePartRequest(job *models.Job, requestID, name string, now time.Time) (*models.Job, error) {
	if name == "" {
		return nil, ErrPartNameRequired
	}

	next := *job
	next.PartRequests = make([]models.PartRequest, len(job.PartRequests), len(job.PartRequests)+1)
	copy(next.PartRequests, job.PartRequests)
	next.PartRequests = append(next.PartRequests, models.PartRequest{
		ID:        requestID,
		Name:      name,
		Status:    models.PartRequestPending,
		Timestamp: now,
	})

	if next.Status != models.StatusWaitingParts && next.Status != models.StatusDelivered {
		next.Status = models.StatusWaitingParts
		next.StatusLogs = appendLog(next.StatusLogs, models.StatusLog{
			Status: models.StatusWaitingParts,
			Time:   now,
			Reason: "part requested: " + name,
		})
	}
	next.UpdatedAt = now
	return &next, nil
}

// ApproveRequest flips one PENDING request to APPROVED, appends a qty-1 part
// line priced from the catalog, and forces the job to WORK_IN_PROGRESS. A
// name with no catalog match resolves to price 0 rather than an error, which
// keeps unlisted parts billable and editable later. Pure function of the
// current job and catalog; approving an already-approved request is rejected
// instead of duplicating the line item. DELIVERED is terminal: approving a
// warranty request on a delivered job records the approval and the line but
// never reopens the job.
func ApproveRequest(job *models.Job, requestID string, catalog Catalog, now time.Time) (*models.Job, error) {
	idx := -1
	for i, req := range job.PartRequests {
		if req.ID == requestID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	if job.PartRequests[idx].Status == models.PartRequestApproved {
		return nil, ErrAlreadyApproved
	}

	price := 0.0
	if catalog != nil {
		if p, ok := catalog.PriceByName(job.PartRequests[idx].Name); ok {
			price = p
		}
	}

	next := *job
	next.PartRequests = make([]models.PartRequest, len(job.PartRequests))
	copy(next.PartRequests, job.PartRequests)
	next.PartRequests[idx].Status = models.PartRequestApproved

	next.Parts = make([]models.LineItem, len(job.Parts), len(job.Parts)+1)
	copy(next.Parts, job.Parts)
	next.Parts = append(next.Parts, models.NewLineItem(requestID, job.PartRequests[idx].Name, 1, price))

	if next.Status != models.StatusWorkInProgress && next.Status != models.StatusDelivered {
		next.Status = models.StatusWorkInProgress
		next.StatusLogs = appendLog(next.StatusLogs, models.StatusLog{
			Status: models.StatusWorkInProgress,
			Time:   now,
			Reason: "part approved: " + job.PartRequests[idx].Name,
		})
	}
	next.UpdatedAt = now
	return &next, nil
}
