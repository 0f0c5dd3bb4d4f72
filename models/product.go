package models

import "time"

// Discount is a percentage price cut bounded by a validity window. IsActive
// is derived at write time from the window and re-checked at pricing time.
type Discount struct {
	ID         string    `json:"id" bson:"id"`
	Code       string    `json:"code" bson:"code"`
	Percentage float64   `json:"percentage" bson:"percentage"`
	ValidFrom  time.Time `json:"validFrom" bson:"validFrom"`
	ValidTo    time.Time `json:"validTo" bson:"validTo"`
	IsActive   bool      `json:"isActive" bson:"isActive"`
}

// Variant is a sellable variation of a product with its own price and stock.
type Variant struct {
	VariantID string   `json:"variantId" bson:"variantId"`
	Color     string   `json:"color,omitempty" bson:"color,omitempty"`
	Size      string   `json:"size,omitempty" bson:"size,omitempty"`
	SKU       string   `json:"sku,omitempty" bson:"sku,omitempty"`
	Price     float64  `json:"price" bson:"price"`
	Stock     int      `json:"stock" bson:"stock"`
	Images    []string `json:"images,omitempty" bson:"images,omitempty"`
}

type Product struct {
	ProductID     string            `json:"productId" bson:"productId"`
	SellerID      string            `json:"sellerId" bson:"sellerId"`
	Name          string            `json:"name" bson:"name"`
	Description   string            `json:"description,omitempty" bson:"description,omitempty"`
	CategoryID    string            `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	Price         float64           `json:"price" bson:"price"`
	StockQuantity int               `json:"stockQuantity" bson:"stockQuantity"`
	Sold          int               `json:"sold" bson:"sold"`
	Attributes    map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Tags          []string          `json:"tags,omitempty" bson:"tags,omitempty"`
	Images        []string          `json:"images,omitempty" bson:"images,omitempty"`
	IsNew         bool              `json:"isNew,omitempty" bson:"isNew,omitempty"`
	Variants      []Variant         `json:"variants,omitempty" bson:"variants,omitempty"`
	Discounts     []Discount        `json:"discounts,omitempty" bson:"discounts,omitempty"`
	CreatedAt     time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
