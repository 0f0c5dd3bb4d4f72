package orders

import (
	"context"
	"errors"
	"time"

	"dokan/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrOrderNotFound     = errors.New("orders: not found")
	ErrInvalidStatus     = errors.New("orders: unknown status")
	ErrInvalidTransition = errors.New("orders: transition not allowed")
)

// Filter narrows order listings. Zero values are ignored.
type Filter struct {
	UserID        string
	SellerID      string
	OrderStatus   string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

// Store is the order persistence surface. Orders are inserted at checkout
// and afterwards only mutated through the transition operations; the
// timeline is push-only.
type Store interface {
	Insert(ctx context.Context, o *models.Order) error
	ByID(ctx context.Context, orderID string) (*models.Order, error)
	List(ctx context.Context, f Filter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
	UpdatePayment(ctx context.Context, orderID, paymentStatus, transactionID string) error
	AddTimeline(ctx context.Context, orderID string, entry models.TimelineEntry) error
}

type MongoStore struct {
	Col *mongo.Collection
	Now func() time.Time
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{Col: col, Now: time.Now}
}

func (s *MongoStore) Insert(ctx context.Context, o *models.Order) error {
	_, err := s.Col.InsertOne(ctx, o)
	return err
}

func (s *MongoStore) ByID(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	err := s.Col.FindOne(ctx, bson.M{"_id": orderID}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.Order, int64, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.SellerID != "" {
		filter["sellerId"] = f.SellerID
	}
	if f.OrderStatus != "" {
		filter["orderStatus"] = f.OrderStatus
	}
	if f.PaymentStatus != "" {
		filter["payment.status"] = f.PaymentStatus
	}
	created := bson.M{}
	if f.From != nil {
		created["$gte"] = *f.From
	}
	if f.To != nil {
		created["$lte"] = *f.To
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}

	total, err := s.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := s.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateStatus moves an order to a new status after validating the
// transition, then appends the matching timeline entry.
func (s *MongoStore) UpdateStatus(ctx context.Context, orderID, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	current, err := s.ByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(current.OrderStatus, status) {
		return ErrInvalidTransition
	}

	now := s.Now().UTC()
	res, err := s.Col.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"orderStatus": status, "updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}

	return s.AddTimeline(ctx, orderID, StatusChangeEntry(status, now))
}

// UpdatePayment sets the payment status; when a transaction id accompanies
// the update it also stamps TransactionId and PaidAt. A timeline entry is
// always appended.
func (s *MongoStore) UpdatePayment(ctx context.Context, orderID, paymentStatus, transactionID string) error {
	now := s.Now().UTC()

	set := bson.M{
		"payment.status": paymentStatus,
		"updatedAt":      now,
	}
	if transactionID != "" {
		set["payment.transactionId"] = transactionID
		set["payment.paidAt"] = now
	}

	res, err := s.Col.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}

	return s.AddTimeline(ctx, orderID, PaymentEntry(paymentStatus, now))
}

// AddTimeline appends an entry; the timeline is never edited or truncated.
func (s *MongoStore) AddTimeline(ctx context.Context, orderID string, entry models.TimelineEntry) error {
	res, err := s.Col.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{
			"$push": bson.M{"statusTimeline": entry},
			"$set":  bson.M{"updatedAt": entry.UpdatedAt},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
