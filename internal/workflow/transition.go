package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/garageos/workshop-manager/internal/models"
)

var (
	// ErrIncompleteTasks blocks a terminal transition while any checklist
	// step is still open.
	ErrIncompleteTasks = errors.New("job has incomplete task steps")
	// ErrPendingPartRequests blocks a terminal transition while any part
	// request awaits supervisor approval.
	ErrPendingPartRequests = errors.New("job has pending part requests")
	// ErrInvalidTransition rejects a target state the workflow does not model
	// from the job's current state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrPauseReasonRequired rejects pausing a job without stating why.
	ErrPauseReasonRequired = errors.New("pause reason is required")
)

// transitions maps each state to the states a caller may move it to. The
// guarded checks for READY and DELIVERED are applied on top of this table.
var transitions = map[models.JobStatus][]models.JobStatus{
	models.StatusEstimate:       {models.StatusWorkInProgress, models.StatusWaitingParts, models.StatusDelivered},
	models.StatusWorkInProgress: {models.StatusWorkPaused, models.StatusWaitingParts, models.StatusReady, models.StatusDelivered},
	models.StatusWorkPaused:     {models.StatusWorkInProgress, models.StatusWaitingParts, models.StatusReady, models.StatusDelivered},
	models.StatusWaitingParts:   {models.StatusWorkInProgress, models.StatusReady, models.StatusDelivered},
	models.StatusReady:          {models.StatusDelivered},
	models.StatusDelivered:      {},
}

// IsWorkComplete reports whether every checklist step across all blocks is
// done. A job with no steps at all is vacuously complete; the READY guard
// relies on that.
func IsWorkComplete(job *models.Job) bool {
	for _, block := range job.Blocks {
		for _, step := range block.Steps {
			if !step.Done {
				return false
			}
		}
	}
	return true
}

// HasPendingPartRequests reports whether any part request is still awaiting
// approval.
func HasPendingPartRequests(job *models.Job) bool {
	for _, req := range job.PartRequests {
		if req.Status == models.PartRequestPending {
			return true
		}
	}
	return false
}

// AttemptTransition validates and applies a status change, returning a copy
// of the job with the new status, a status-log entry and fresh timestamps.
// The input job is never mutated; on any guard failure the stored job is
// unchanged.
//
// READY and DELIVERED both require every task step done and no pending part
// request; the pending-parts check takes precedence when both fail. Entering
// WORK_PAUSED requires a reason, recorded on the job and in the log.
func AttemptTransition(job *models.Job, target models.JobStatus, reason string, now time.Time) (*models.Job, error) {
	if !models.IsValidStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	if !allowed(job.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, target)
	}

	if target == models.StatusReady || target == models.StatusDelivered {
		if HasPendingPartRequests(job) {
			return nil, ErrPendingPartRequests
		}
		if !IsWorkComplete(job) {
			return nil, ErrIncompleteTasks
		}
	}

	if target == models.StatusWorkPaused && reason == "" {
		return nil, ErrPauseReasonRequired
	}

	next := *job
	next.Status = target
	next.UpdatedAt = now
	if target == models.StatusWorkPaused {
		next.PauseReason = reason
	} else {
		next.PauseReason = ""
	}
	if target == models.StatusDelivered {
		completed := now
		next.CompletedAt = &completed
	}
	next.StatusLogs = appendLog(job.StatusLogs, models.StatusLog{
		Status: target,
		Time:   now,
		Reason: reason,
	})
	return &next, nil
}

func allowed(from, to models.JobStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// appendLog copies before appending so transitioned jobs never alias the
// caller's slice.
func appendLog(logs []models.StatusLog, entry models.StatusLog) []models.StatusLog {
	out := make([]models.StatusLog, len(logs), len(logs)+1)
	copy(out, logs)
	return append(out, entry)
}
