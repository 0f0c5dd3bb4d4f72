// Package inventory owns every mutation of stock counters. All writes are
// single conditional updates on the product document so that concurrent
// checkouts against the same variant cannot lose updates.
package inventory

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound          = errors.New("inventory: product or variant not found")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// Adjuster is the stock mutation surface used by checkout and admin flows.
// An empty variantID targets the product's flat stockQuantity counter.
type Adjuster interface {
	IncreaseStock(ctx context.Context, productID, variantID string, qty int) error
	DecreaseStock(ctx context.Context, productID, variantID string, qty int) error
	SetStock(ctx context.Context, productID, variantID string, value int) error
}

// Mongo adjusts stock directly on the products collection.
type Mongo struct {
	Col *mongo.Collection
}

func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{Col: col}
}

// IncreaseStock returns qty units to stock (payment failure, cancellation,
// restocking).
func (m *Mongo) IncreaseStock(ctx context.Context, productID, variantID string, qty int) error {
	var filter, update bson.M
	if variantID == "" {
		filter = bson.M{"productId": productID}
		update = bson.M{
			"$inc": bson.M{"stockQuantity": qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		}
		res, err := m.Col.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	filter = bson.M{"productId": productID, "variants.variantId": variantID}
	update = bson.M{
		"$inc": bson.M{"variants.$[v].stock": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := m.Col.UpdateOne(ctx, filter, update,
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"v.variantId": variantID}},
		}))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecreaseStock reserves qty units. The filter requires the current counter
// to cover qty, so the decrement and the check happen in one atomic update.
// The source system allowed stock to go negative; the guard here is a
// deliberate departure to rule out oversell.
func (m *Mongo) DecreaseStock(ctx context.Context, productID, variantID string, qty int) error {
	if variantID == "" {
		filter := bson.M{"productId": productID, "stockQuantity": bson.M{"$gte": qty}}
		update := bson.M{
			"$inc": bson.M{"stockQuantity": -qty, "sold": qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		}
		res, err := m.Col.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return m.classifyMiss(ctx, productID, "")
		}
		return nil
	}

	filter := bson.M{
		"productId": productID,
		"variants": bson.M{"$elemMatch": bson.M{
			"variantId": variantID,
			"stock":     bson.M{"$gte": qty},
		}},
	}
	update := bson.M{
		"$inc": bson.M{"variants.$[v].stock": -qty, "sold": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := m.Col.UpdateOne(ctx, filter, update,
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"v.variantId": variantID}},
		}))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return m.classifyMiss(ctx, productID, variantID)
	}
	return nil
}

// SetStock overwrites the counter (admin restocking).
func (m *Mongo) SetStock(ctx context.Context, productID, variantID string, value int) error {
	if variantID == "" {
		res, err := m.Col.UpdateOne(ctx,
			bson.M{"productId": productID},
			bson.M{"$set": bson.M{"stockQuantity": value, "updatedAt": time.Now().UTC()}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	res, err := m.Col.UpdateOne(ctx,
		bson.M{"productId": productID, "variants.variantId": variantID},
		bson.M{"$set": bson.M{"variants.$[v].stock": value, "updatedAt": time.Now().UTC()}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"v.variantId": variantID}},
		}))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// classifyMiss tells a stale id apart from an insufficient counter after a
// guarded update matched nothing.
func (m *Mongo) classifyMiss(ctx context.Context, productID, variantID string) error {
	filter := bson.M{"productId": productID}
	if variantID != "" {
		filter["variants.variantId"] = variantID
	}
	n, err := m.Col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrInsufficientStock
}
