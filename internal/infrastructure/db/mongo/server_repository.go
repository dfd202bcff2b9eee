package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vpnservice/access-system/internal/core/domain"
)

const collectionServers = "servers"

type ServerRepository struct {
	col *mongo.Collection
}

func NewServerRepository(db *mongo.Database) *ServerRepository {
	return &ServerRepository{col: db.Collection(collectionServers)}
}

type mongoServer struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Country      string    `bson:"country"`
	City         string    `bson:"city"`
	Status       string    `bson:"status"`
	LocationCode string    `bson:"location_code,omitempty"`
	Active       bool      `bson:"active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toMongoServer(s *domain.Server) mongoServer {
	return mongoServer{
		ID:           s.ID,
		Name:         s.Name,
		Country:      s.Country,
		City:         s.City,
		Status:       string(s.Status),
		LocationCode: s.LocationCode,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
	}
}

func (m mongoServer) toDomain() *domain.Server {
	return &domain.Server{
		ID:           m.ID,
		Name:         m.Name,
		Country:      m.Country,
		City:         m.City,
		Status:       domain.ServerStatus(m.Status),
		LocationCode: m.LocationCode,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *ServerRepository) Create(ctx context.Context, s *domain.Server) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toMongoServer(s))
	return err
}

func (r *ServerRepository) Update(ctx context.Context, s *domain.Server) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, toMongoServer(s))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrServerNotFound
	}
	return nil
}

func (r *ServerRepository) FindByID(ctx context.Context, id string) (*domain.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoServer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServerNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// List returns servers ordered by country then city.
func (r *ServerRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "country", Value: 1}, {Key: "city", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoServer
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	servers := make([]*domain.Server, 0, len(docs))
	for _, m := range docs {
		servers = append(servers, m.toDomain())
	}
	return servers, nil
}

func (r *ServerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrServerNotFound
	}
	return nil
}

func (r *ServerRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"active": active, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrServerNotFound
	}
	return nil
}
