package db

import (
	"context"
	"errors"

	"github.com/garageos/workshop-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a referenced document does not resolve.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned when a versioned job update loses the
	// race to a concurrent writer. The caller reloads and retries.
	ErrVersionConflict = errors.New("job was modified concurrently")
)

// JobCollection defines the interface for job card operations.
type JobCollection interface {
	InsertJob(ctx context.Context, job models.Job) (string, error)
	FindJobByID(ctx context.Context, id string) (*models.Job, error)
	FindJobByRegistration(ctx context.Context, registration string) (*models.Job, error)
	FindJobs(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Job, error)
	ReplaceJob(ctx context.Context, job *models.Job) error
	PatchJob(ctx context.Context, id string, fields bson.M) error
	DeleteJob(ctx context.Context, id string) error
}

// InventoryCollection defines the interface for the parts ledger.
type InventoryCollection interface {
	InsertItem(ctx context.Context, item models.InventoryItem) (string, error)
	FindItemByID(ctx context.Context, id string) (*models.InventoryItem, error)
	FindItems(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.InventoryItem, error)
	FindItemByName(ctx context.Context, name string) (*models.InventoryItem, error)
	PatchItem(ctx context.Context, id string, fields bson.M) error
	DeleteItem(ctx context.Context, id string) error
}

// OBDCollection defines the interface for the diagnostic knowledge base.
type OBDCollection interface {
	InsertCodes(ctx context.Context, codes []models.OBDCode) (int, error)
	FindCodes(ctx context.Context, filter bson.M) ([]models.OBDCode, error)
	ExistingCodes(ctx context.Context) (map[string]bool, error)
}
