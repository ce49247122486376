package workflow

import (
	"errors"

	"github.com/garageos/workshop-manager/internal/models"
)

// ErrStepNotFound rejects a toggle against a block or step index that does
// not exist on the job.
var ErrStepNotFound = errors.New("task step not found")

// ToggleStep flips the done flag of one checklist step, addressed by block
// and step index, and returns a copy of the job. Toggling is idempotent per
// invocation: each call flips the current value, so two calls restore it.
func ToggleStep(job *models.Job, blockIdx, stepIdx int) (*models.Job, error) {
	if blockIdx < 0 || blockIdx >= len(job.Blocks) {
		return nil, ErrStepNotFound
	}
	block := job.Blocks[blockIdx]
	if stepIdx < 0 || stepIdx >= len(block.Steps) {
		return nil, ErrStepNotFound
	}

	next := *job
	next.Blocks = make([]models.TaskBlock, len(job.Blocks))
	copy(next.Blocks, job.Blocks)

	steps := make([]models.TaskStep, len(block.Steps))
	copy(steps, block.Steps)
	steps[stepIdx].Done = !steps[stepIdx].Done
	next.Blocks[blockIdx].Steps = steps

	return &next, nil
}

// Progress returns the percentage of completed steps across all blocks,
// rounded down. A job with no steps reports 100 once it has reached READY or
// DELIVERED, otherwise 0.
func Progress(job *models.Job) int {
	total := 0
	done := 0
	for _, block := range job.Blocks {
		for _, step := range block.Steps {
			total++
			if step.Done {
				done++
			}
		}
	}
	if total == 0 {
		if job.Status == models.StatusReady || job.Status == models.StatusDelivered {
			return 100
		}
		return 0
	}
	return done * 100 / total
}
