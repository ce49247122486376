package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garageos/workshop-manager/internal/models"
)

func TestRaisePartRequest(t *testing.T) {
	now := time.Now()

	t.Run("appends a pending request and forces waiting", func(t *testing.T) {
		job := &models.Job{Status: models.StatusWorkInProgress}
		next, err := RaisePartRequest(job, "r1", "Brake Pad Set", now)
		require.NoError(t, err)
		require.Len(t, next.PartRequests, 1)
		assert.Equal(t, "r1", next.PartRequests[0].ID)
		assert.Equal(t, models.PartRequestPending, next.PartRequests[0].Status)
		assert.Equal(t, models.StatusWaitingParts, next.Status)
		require.Len(t, next.StatusLogs, 1)

		// Original untouched
		assert.Equal(t, models.StatusWorkInProgress, job.Status)
		assert.Empty(t, job.PartRequests)
	})

	t.Run("already waiting stays put without a duplicate log", func(t *testing.T) {
		job := &models.Job{Status: models.StatusWaitingParts}
		next, err := RaisePartRequest(job, "r1", "Air Filter", now)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaitingParts, next.Status)
		assert.Empty(t, next.StatusLogs)
	})

	t.Run("requests are append-only", func(t *testing.T) {
		job := &models.Job{
			Status:       models.StatusWaitingParts,
			PartRequests: []models.PartRequest{{ID: "r1", Name: "Clutch Plate", Status: models.PartRequestApproved}},
		}
		next, err := RaisePartRequest(job, "r2", "Clutch Cable", now)
		require.NoError(t, err)
		require.Len(t, next.PartRequests, 2)
		assert.Equal(t, models.PartRequestApproved, next.PartRequests[0].Status)
		assert.Equal(t, "r2", next.PartRequests[1].ID)
	})

	t.Run("warranty request on a delivered job does not reopen it", func(t *testing.T) {
		job := &models.Job{Status: models.StatusDelivered}
		next, err := RaisePartRequest(job, "r1", "Brake Pad Set", now)
		require.NoError(t, err)
		require.Len(t, next.PartRequests, 1)
		assert.Equal(t, models.StatusDelivered, next.Status)
		assert.Empty(t, next.StatusLogs)
	})

	t.Run("name is required", func(t *testing.T) {
		job := &models.Job{Status: models.StatusWorkInProgress}
		_, err := RaisePartRequest(job, "r1", "", now)
		assert.ErrorIs(t, err, ErrPartNameRequired)
	})
}

func TestApproveRequest(t *testing.T) {
	now := time.Now()
	catalog := MapCatalog{"Brake Pad Set": 1450, "Air Filter": 320}

	pendingJob := func() *models.Job {
		return &models.Job{
			Status:       models.StatusWaitingParts,
			PartRequests: []models.PartRequest{{ID: "r1", Name: "Brake Pad Set", Status: models.PartRequestPending}},
		}
	}

	t.Run("approval prices from catalog and resumes work", func(t *testing.T) {
		next, err := ApproveRequest(pendingJob(), "r1", catalog, now)
		require.NoError(t, err)
		assert.Equal(t, models.PartRequestApproved, next.PartRequests[0].Status)
		require.Len(t, next.Parts, 1)
		assert.Equal(t, "r1", next.Parts[0].ID)
		assert.Equal(t, "Brake Pad Set", next.Parts[0].Desc)
		assert.Equal(t, 1.0, next.Parts[0].Qty)
		assert.Equal(t, 1450.0, next.Parts[0].Price)
		assert.Equal(t, 1450.0, next.Parts[0].Total)
		assert.Equal(t, models.StatusWorkInProgress, next.Status)
	})

	t.Run("unmatched name prices at zero", func(t *testing.T) {
		job := &models.Job{
			Status:       models.StatusWaitingParts,
			PartRequests: []models.PartRequest{{ID: "r1", Name: "Custom Bracket", Status: models.PartRequestPending}},
		}
		next, err := ApproveRequest(job, "r1", catalog, now)
		require.NoError(t, err)
		require.Len(t, next.Parts, 1)
		assert.Equal(t, 0.0, next.Parts[0].Price)
		assert.Equal(t, 0.0, next.Parts[0].Total)
	})

	t.Run("name match is exact", func(t *testing.T) {
		job := &models.Job{
			Status:       models.StatusWaitingParts,
			PartRequests: []models.PartRequest{{ID: "r1", Name: "brake pad set", Status: models.PartRequestPending}},
		}
		next, err := ApproveRequest(job, "r1", catalog, now)
		require.NoError(t, err)
		assert.Equal(t, 0.0, next.Parts[0].Price)
	})

	t.Run("second approval is rejected, no duplicate line", func(t *testing.T) {
		once, err := ApproveRequest(pendingJob(), "r1", catalog, now)
		require.NoError(t, err)
		_, err = ApproveRequest(once, "r1", catalog, now)
		assert.ErrorIs(t, err, ErrAlreadyApproved)
		assert.Len(t, once.Parts, 1)
	})

	t.Run("unknown request id", func(t *testing.T) {
		_, err := ApproveRequest(pendingJob(), "missing", catalog, now)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("delivered jobs stay delivered", func(t *testing.T) {
		job := &models.Job{
			Status:       models.StatusDelivered,
			PartRequests: []models.PartRequest{{ID: "r1", Name: "Brake Pad Set", Status: models.PartRequestPending}},
		}
		next, err := ApproveRequest(job, "r1", catalog, now)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivered, next.Status)
		assert.Empty(t, next.StatusLogs)
		// Approval itself is still recorded and billed
		assert.Equal(t, models.PartRequestApproved, next.PartRequests[0].Status)
		require.Len(t, next.Parts, 1)
		assert.Equal(t, 1450.0, next.Parts[0].Price)
	})

	t.Run("nil catalog prices at zero", func(t *testing.T) {
		next, err := ApproveRequest(pendingJob(), "r1", nil, now)
		require.NoError(t, err)
		assert.Equal(t, 0.0, next.Parts[0].Price)
	})
}
