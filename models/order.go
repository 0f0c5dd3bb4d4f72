package models

import "time"

// Order statuses. The wire format is a string but the set is closed; the
// source of these values is the seller fulfilment flow.
const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Payment statuses.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

// OrderItem is an immutable snapshot of a purchased line. It is copied from
// the cart at order time and never re-derived from the live product.
type OrderItem struct {
	ProductID   string  `json:"productId" bson:"productId"`
	VariantID   string  `json:"variantId,omitempty" bson:"variantId,omitempty"`
	ProductName string  `json:"productName" bson:"productName"`
	Color       string  `json:"color,omitempty" bson:"color,omitempty"`
	Size        string  `json:"size,omitempty" bson:"size,omitempty"`
	SKU         string  `json:"sku,omitempty" bson:"sku,omitempty"`
	Price       float64 `json:"price" bson:"price"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
	SellerID    string  `json:"sellerId" bson:"sellerId"`
}

type Payment struct {
	Method        string     `json:"method" bson:"method"`
	Status        string     `json:"status" bson:"status"`
	TransactionID string     `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// TimelineEntry is one record in an order's append-only status timeline.
type TimelineEntry struct {
	Status    string    `json:"status" bson:"status"`
	Message   string    `json:"message" bson:"message"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type ShippingAddress struct {
	FullName string `json:"fullName" bson:"fullName"`
	Phone    string `json:"phone" bson:"phone"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Address  string `json:"address" bson:"address"`
	City     string `json:"city" bson:"city"`
	Country  string `json:"country" bson:"country"`
}

// Order is one seller-scoped order created at checkout. TotalAmount is fixed
// at creation (SubTotal + ShippingCost) and never recomputed afterwards.
type Order struct {
	ID              string          `json:"id" bson:"_id"`
	UserID          string          `json:"userId" bson:"userId"`
	SellerID        string          `json:"sellerId" bson:"sellerId"`
	Items           []OrderItem     `json:"items" bson:"items"`
	SubTotal        float64         `json:"subTotal" bson:"subTotal"`
	ShippingCost    float64         `json:"shippingCost" bson:"shippingCost"`
	TotalAmount     float64         `json:"totalAmount" bson:"totalAmount"`
	Payment         Payment         `json:"payment" bson:"payment"`
	OrderStatus     string          `json:"orderStatus" bson:"orderStatus"`
	StatusTimeline  []TimelineEntry `json:"statusTimeline" bson:"statusTimeline"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}
