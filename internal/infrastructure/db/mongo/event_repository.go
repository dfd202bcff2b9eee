package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

const collectionEvents = "lifecycle_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

// InsertEvent persists a lifecycle event to the audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.LifecycleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":      event.UserID,
		"type":         event.Type,
		"timestamp":    event.Timestamp.UTC(),
		"actor":        event.Actor,
		"detail":       event.Detail,
		"processed_at": time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// ListByUser returns a user's audit events, newest first.
func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]*domain.LifecycleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		UserID    string    `bson:"user_id"`
		Type      string    `bson:"type"`
		Timestamp time.Time `bson:"timestamp"`
		Actor     string    `bson:"actor"`
		Detail    string    `bson:"detail"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]*domain.LifecycleEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, &domain.LifecycleEvent{
			UserID:    d.UserID,
			Type:      d.Type,
			Timestamp: d.Timestamp,
			Actor:     d.Actor,
			Detail:    d.Detail,
		})
	}
	return events, nil
}

// EnsureIndexes creates necessary indexes on the lifecycle_events collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
