package products

import (
	"context"
	"errors"

	"dokan/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("products: not found")

// Catalog is the read side of the product collection consumed by the cart
// and checkout flows.
type Catalog interface {
	GetByID(ctx context.Context, productID string) (*models.Product, error)
}

// MongoStore backs the catalog with the products collection.
type MongoStore struct {
	Col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{Col: col}
}

func (s *MongoStore) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := s.Col.FindOne(ctx, bson.M{"productId": productID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) Insert(ctx context.Context, p *models.Product) error {
	_, err := s.Col.InsertOne(ctx, p)
	return err
}

func (s *MongoStore) Replace(ctx context.Context, p *models.Product) error {
	res, err := s.Col.ReplaceOne(ctx, bson.M{"productId": p.ProductID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) BySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	cursor, err := s.Col.Find(ctx, bson.M{"sellerId": sellerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Product
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
