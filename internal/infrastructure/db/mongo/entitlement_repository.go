package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vpnservice/access-system/internal/core/domain"
)

const collectionEntitlements = "entitlements"

// EntitlementRepository is an append-only ledger. Documents are inserted at
// subscription time and never updated; the stored status is a snapshot and is
// re-derived from end_at by the service layer on every read.
type EntitlementRepository struct {
	col *mongo.Collection
}

func NewEntitlementRepository(db *mongo.Database) *EntitlementRepository {
	return &EntitlementRepository{col: db.Collection(collectionEntitlements)}
}

type mongoEntitlement struct {
	ID       string    `bson:"_id"`
	UserID   string    `bson:"user_id"`
	PlanID   string    `bson:"plan_id"`
	PlanName string    `bson:"plan_name"`
	StartAt  time.Time `bson:"start_at"`
	EndAt    time.Time `bson:"end_at"`
	Status   string    `bson:"status"`
}

func (r *EntitlementRepository) Insert(ctx context.Context, e *domain.Entitlement) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEntitlement{
		ID:       e.ID,
		UserID:   e.UserID,
		PlanID:   e.PlanID,
		PlanName: e.PlanName,
		StartAt:  e.StartAt.UTC(),
		EndAt:    e.EndAt.UTC(),
		Status:   string(e.Status),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// ListByUser returns a user's entitlements, newest start first.
func (r *EntitlementRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Entitlement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "start_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoEntitlement
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Entitlement, 0, len(docs))
	for _, m := range docs {
		out = append(out, &domain.Entitlement{
			ID:       m.ID,
			UserID:   m.UserID,
			PlanID:   m.PlanID,
			PlanName: m.PlanName,
			StartAt:  m.StartAt,
			EndAt:    m.EndAt,
			Status:   domain.EntitlementStatus(m.Status),
		})
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the entitlements collection.
func (r *EntitlementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "end_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
