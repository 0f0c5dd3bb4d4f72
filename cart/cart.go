// Package cart maintains the per-user shopping cart: add, reprice, remove,
// clear. Line prices are snapshotted at mutation time through the pricing
// engine; the cart total is always recomputed from the lines, never mutated
// on its own.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dokan/models"
	"dokan/pricing"
	"dokan/products"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("cart: product not found")
	ErrVariantNotFound = errors.New("cart: variant not found")
	ErrItemNotFound    = errors.New("cart: item not in cart")
	ErrInvalidQuantity = errors.New("cart: quantity must be positive")
)

type Service struct {
	Carts   Store
	Catalog products.Catalog
	Now     func() time.Time
}

func NewService(carts Store, catalog products.Catalog) *Service {
	return &Service{Carts: carts, Catalog: catalog, Now: time.Now}
}

// GetOrCreate returns the user's cart, or a fresh empty one. The fresh cart
// is not persisted until its first mutation.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.Carts.GetByUser(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		now := s.Now().UTC()
		return &models.Cart{
			ID:        uuid.NewString(),
			UserID:    userID,
			Items:     []models.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	return c, err
}

// AddItem merges quantity into an existing (product, variant) line or appends
// a new one. The line price is the current final unit price times the new
// quantity, so re-adding a product also refreshes a stale discount snapshot.
func (s *Service) AddItem(ctx context.Context, userID, productID, variantID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	line, err := s.buildLine(ctx, productID, variantID, quantity)
	if err != nil {
		return nil, err
	}

	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	unit := line.Price / float64(line.Quantity)
	merged := false
	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID == productID && it.VariantID == variantID {
			it.Quantity += quantity
			it.Price = unit * float64(it.Quantity)
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, *line)
	}

	return c, s.save(ctx, c)
}

// UpdateQuantity replaces a line's quantity and reprices it from the live
// product, guarding against discounts that changed since the line was added.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID, variantID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	c, err := s.Carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	line, err := s.buildLine(ctx, productID, variantID, quantity)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID == productID && it.VariantID == variantID {
			it.Quantity = quantity
			it.Price = line.Price
			return c, s.save(ctx, c)
		}
	}
	return nil, ErrItemNotFound
}

// RemoveItem drops one line from the cart.
func (s *Service) RemoveItem(ctx context.Context, userID, productID, variantID string) (*models.Cart, error) {
	c, err := s.Carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return c, s.save(ctx, c)
		}
	}
	return nil, ErrItemNotFound
}

// Clear removes every line.
func (s *Service) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.Carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Items = []models.CartItem{}
	return c, s.save(ctx, c)
}

func (s *Service) save(ctx context.Context, c *models.Cart) error {
	c.Retotal()
	c.UpdatedAt = s.Now().UTC()
	return s.Carts.Upsert(ctx, c)
}

// buildLine resolves the product (and variant), prices it as of now, and
// returns a snapshot line carrying quantity * final unit price.
func (s *Service) buildLine(ctx context.Context, productID, variantID string, quantity int) (*models.CartItem, error) {
	p, err := s.Catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("cart: load product: %w", err)
	}

	now := s.Now().UTC()
	line := models.CartItem{
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: p.Name,
		Quantity:    quantity,
		SellerID:    p.SellerID,
	}
	if len(p.Images) > 0 {
		line.Image = p.Images[0]
	}

	base := p.Price
	if variantID != "" {
		v := p.FindVariant(variantID)
		if v == nil {
			return nil, ErrVariantNotFound
		}
		base = v.Price
		line.Color = v.Color
		line.Size = v.Size
		line.SKU = v.SKU
		if len(v.Images) > 0 {
			line.Image = v.Images[0]
		}
	}

	unit := pricing.FinalPrice(base, p.Discounts, now)
	line.Price = unit * float64(quantity)
	return &line, nil
}
