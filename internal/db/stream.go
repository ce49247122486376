package db

import (
	"context"
	"fmt"

	"github.com/garageos/workshop-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobWatcher follows live updates to a single job via a change stream. It is
// opened when a viewer enters the tracking screen and must be closed when the
// viewer leaves; nothing subscribes in the background.
type JobWatcher struct {
	stream *mongo.ChangeStream
}

// WatchJob opens a change stream scoped to one job id. Each call to Next
// blocks until the job is updated and returns its full post-update state.
func WatchJob(ctx context.Context, collection *mongo.Collection, id string) (*JobWatcher, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid job ID: %w", err)
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"documentKey._id": objectID}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := collection.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}
	return &JobWatcher{stream: stream}, nil
}

// Next blocks until the next update and decodes the job's new state. Returns
// an error when the stream or context ends.
func (w *JobWatcher) Next(ctx context.Context) (*models.Job, error) {
	if !w.stream.Next(ctx) {
		if err := w.stream.Err(); err != nil {
			return nil, err
		}
		return nil, context.Canceled
	}
	var event struct {
		FullDocument models.Job `bson:"fullDocument"`
	}
	if err := w.stream.Decode(&event); err != nil {
		return nil, err
	}
	return &event.FullDocument, nil
}

// Close releases the change stream.
func (w *JobWatcher) Close(ctx context.Context) error {
	return w.stream.Close(ctx)
}
