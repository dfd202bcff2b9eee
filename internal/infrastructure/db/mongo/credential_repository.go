package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vpnservice/access-system/internal/core/domain"
)

const collectionCredentials = "credentials"

// Index names referenced when classifying duplicate-key errors. They must
// match the names given in EnsureIndexes.
const (
	indexCredentialUser = "uniq_user_id"
	indexCredentialUUID = "uniq_uuid"
)

// CredentialRepository enforces both uniqueness rules at the storage level:
// one credential per user and one holder per identifier. Races that slip past
// the service-level lock are settled here by the unique indexes.
type CredentialRepository struct {
	col *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{col: db.Collection(collectionCredentials)}
}

type mongoCredential struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	UUID      string    `bson:"uuid"`
	Server    string    `bson:"server"`
	Port      int       `bson:"port"`
	Protocol  string    `bson:"protocol"`
	CreatedAt time.Time `bson:"created_at"`
	RotatedAt time.Time `bson:"rotated_at,omitempty"`
}

func (m mongoCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:        m.ID,
		UserID:    m.UserID,
		UUID:      m.UUID,
		Server:    m.Server,
		Port:      m.Port,
		Protocol:  m.Protocol,
		CreatedAt: m.CreatedAt,
		RotatedAt: m.RotatedAt,
	}
}

// Insert persists a new credential. A duplicate key on the user index means a
// concurrent issue already won for this user; a duplicate on the identifier
// index means the generated value collided with another user's.
func (r *CredentialRepository) Insert(ctx context.Context, c *domain.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCredential{
		ID:        c.ID,
		UserID:    c.UserID,
		UUID:      c.UUID,
		Server:    c.Server,
		Port:      c.Port,
		Protocol:  c.Protocol,
		CreatedAt: c.CreatedAt.UTC(),
		RotatedAt: c.RotatedAt,
	}

	_, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return classifyDuplicate(err)
	}
	return nil
}

func (r *CredentialRepository) FindByUser(ctx context.Context, userID string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoCredential
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// ReplaceUUID swaps the stored identifier atomically and returns the updated
// credential. The identifier unique index still applies to updates, so a
// collision with another user's identifier surfaces the same way as on Insert.
func (r *CredentialRepository) ReplaceUUID(ctx context.Context, userID, newUUID string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"uuid":       newUUID,
		"rotated_at": time.Now().UTC(),
	}}

	var m mongoCredential
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, classifyDuplicate(err)
	}
	return m.toDomain(), nil
}

// classifyDuplicate maps a duplicate-key error to the domain constraint that
// was violated, based on which unique index rejected the write.
func classifyDuplicate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, indexCredentialUUID) {
				return domain.ErrCredentialIDTaken
			}
			if strings.Contains(e.Message, indexCredentialUser) {
				return domain.ErrCredentialExists
			}
		}
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if strings.Contains(ce.Message, indexCredentialUUID) {
			return domain.ErrCredentialIDTaken
		}
		if strings.Contains(ce.Message, indexCredentialUser) {
			return domain.ErrCredentialExists
		}
	}

	return err
}

// EnsureIndexes creates the two unique indexes the credential contract rests
// on. The explicit names are what classifyDuplicate keys off.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexCredentialUser),
		},
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexCredentialUUID),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
