package cart

import (
	"context"
	"errors"

	"dokan/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCartNotFound = errors.New("cart: not found")

// Store persists one cart document per user. Upsert is last-write-wins:
// there is no concurrency token, which is acceptable for a single user's
// own cart.
type Store interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	Upsert(ctx context.Context, cart *models.Cart) error
}

type MongoStore struct {
	Col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{Col: col}
}

func (s *MongoStore) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := s.Col.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) Upsert(ctx context.Context, cart *models.Cart) error {
	_, err := s.Col.ReplaceOne(ctx,
		bson.M{"_id": cart.ID},
		cart,
		options.Replace().SetUpsert(true))
	return err
}
