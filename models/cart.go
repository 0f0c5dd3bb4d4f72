package models

import "time"

// CartItem is one line in a user's cart. Price is the discount-applied line
// total (final unit price * quantity), snapshotted when the line is written.
type CartItem struct {
	ProductID   string  `json:"productId" bson:"productId"`
	VariantID   string  `json:"variantId,omitempty" bson:"variantId,omitempty"`
	ProductName string  `json:"productName" bson:"productName"`
	Color       string  `json:"color,omitempty" bson:"color,omitempty"`
	Size        string  `json:"size,omitempty" bson:"size,omitempty"`
	SKU         string  `json:"sku,omitempty" bson:"sku,omitempty"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
	SellerID    string  `json:"sellerId" bson:"sellerId"`
}

// Cart is the single per-user shopping cart document.
type Cart struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"userId"`
	Items       []CartItem `json:"items" bson:"items"`
	TotalAmount float64    `json:"totalAmount" bson:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Retotal recomputes TotalAmount from the line prices. Line prices already
// include quantity, so this is a plain sum.
func (c *Cart) Retotal() {
	total := 0.0
	for _, it := range c.Items {
		total += it.Price
	}
	c.TotalAmount = total
}
