// Package checkout turns a cart or a single buy-now request into one order
// per distinct seller, prices and ships each group, adjusts stock, prunes the
// ordered lines from the cart, and branches on the payment method.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dokan/cart"
	"dokan/inventory"
	"dokan/models"
	"dokan/mq"
	"dokan/orders"
	"dokan/pay"
	"dokan/pricing"
	"dokan/products"
	"dokan/shipping"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("checkout: no authenticated user")
	ErrEmptyCart       = errors.New("checkout: shopping cart is empty")
	ErrProductNotFound = errors.New("checkout: product not found")
	ErrInvalidVariant  = errors.New("checkout: invalid variant selected")
	ErrMissingPayment  = errors.New("checkout: payment method is required")
	ErrMissingAddress  = errors.New("checkout: shipping address is required")
)

// Request is the checkout payload. ProductID set means buy-now: a single
// synthetic line priced from the live product, ignoring the cart entirely.
type Request struct {
	ProductID       string                 `json:"productId,omitempty"`
	VariantID       string                 `json:"variantId,omitempty"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

// Result carries the created orders and, for gateway payments, the redirect
// URL. COD checkouts never get a PaymentURL.
type Result struct {
	Message    string         `json:"message"`
	Orders     []models.Order `json:"orders"`
	PaymentURL string         `json:"paymentUrl,omitempty"`
}

type Service struct {
	Carts   cart.Store
	Catalog products.Catalog
	Orders  orders.Store
	Stock   inventory.Adjuster
	Now     func() time.Time
	NewID   func() string
	// Events publishes order-created notifications; nil disables emission.
	Events func(ctx context.Context, ev mq.Event)
}

func NewService(carts cart.Store, catalog products.Catalog, orderStore orders.Store, stock inventory.Adjuster) *Service {
	return &Service{
		Carts:   carts,
		Catalog: catalog,
		Orders:  orderStore,
		Stock:   stock,
		Now:     time.Now,
		NewID:   uuid.NewString,
		Events:  mq.Emit,
	}
}

// Checkout runs the full order-splitting flow. Each seller order is
// committed independently: a failure partway through leaves earlier orders
// standing (at-least-once, no rollback) and surfaces the error.
func (s *Service) Checkout(ctx context.Context, userID string, req Request) (*Result, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, ErrMissingPayment
	}
	if strings.TrimSpace(req.ShippingAddress.City) == "" {
		return nil, ErrMissingAddress
	}

	lines, fromCart, err := s.resolveLines(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	address := req.ShippingAddress
	if address.Country == "" {
		address.Country = "Bangladesh"
	}
	shippingCost := shipping.Cost(address.City)

	created := make([]models.Order, 0, 2)
	for _, group := range SplitBySeller(lines) {
		order := buildOrder(userID, group, req.PaymentMethod, address, shippingCost, now)
		order.ID = s.NewID()

		if err := s.Orders.Insert(ctx, &order); err != nil {
			// Earlier seller orders are already committed and stay valid;
			// they are reconciled manually, not rolled back.
			if len(created) > 0 {
				log.Printf("Checkout: order insert failed after %d committed orders: %v", len(created), err)
			}
			return nil, fmt.Errorf("checkout: create order: %w", err)
		}
		created = append(created, order)

		for _, it := range order.Items {
			if err := s.Stock.DecreaseStock(ctx, it.ProductID, it.VariantID, it.Quantity); err != nil {
				// The order stands either way; stock mismatches surface in
				// seller inventory reports.
				log.Printf("Checkout: stock decrement failed for %s/%s: %v", it.ProductID, it.VariantID, err)
			}
		}

		if s.Events != nil {
			s.Events(ctx, mq.Event{
				Name:     "order-created",
				EntityID: order.ID,
				UserID:   userID,
				SellerID: order.SellerID,
			})
		}
	}

	if fromCart {
		if err := s.pruneCart(ctx, userID, created, now); err != nil {
			log.Println("Checkout: cart prune failed:", err)
		}
	}

	res := &Result{Orders: created}
	if strings.EqualFold(req.PaymentMethod, "cod") {
		res.Message = "Order(s) created successfully (COD)"
		return res, nil
	}

	session, err := pay.CreateOrderSession(created[0].ID, grandTotal(created))
	if err != nil {
		return nil, fmt.Errorf("checkout: payment session: %w", err)
	}
	res.Message = "Redirect to payment"
	res.PaymentURL = session.URL
	return res, nil
}

// resolveLines produces the snapshot lines to order: a single live-priced
// line for buy-now, or the user's cart lines.
func (s *Service) resolveLines(ctx context.Context, userID string, req Request) ([]models.CartItem, bool, error) {
	if req.ProductID != "" {
		line, err := s.buyNowLine(ctx, req)
		if err != nil {
			return nil, false, err
		}
		return []models.CartItem{*line}, false, nil
	}

	c, err := s.Carts.GetByUser(ctx, userID)
	if errors.Is(err, cart.ErrCartNotFound) {
		return nil, false, ErrEmptyCart
	}
	if err != nil {
		return nil, false, fmt.Errorf("checkout: load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, false, ErrEmptyCart
	}
	return c.Items, true, nil
}

func (s *Service) buyNowLine(ctx context.Context, req Request) (*models.CartItem, error) {
	p, err := s.Catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("checkout: load product: %w", err)
	}

	now := s.Now().UTC()
	line := models.CartItem{
		ProductID:   p.ProductID,
		VariantID:   req.VariantID,
		ProductName: p.Name,
		Quantity:    1,
		SellerID:    p.SellerID,
	}
	if len(p.Images) > 0 {
		line.Image = p.Images[0]
	}

	base := p.Price
	if req.VariantID != "" {
		v := p.FindVariant(req.VariantID)
		if v == nil {
			return nil, ErrInvalidVariant
		}
		base = v.Price
		line.Color = v.Color
		line.Size = v.Size
		line.SKU = v.SKU
		if len(v.Images) > 0 {
			line.Image = v.Images[0]
		}
	}

	line.Price = pricing.FinalPrice(base, p.Discounts, now)
	return &line, nil
}

// pruneCart removes only the lines belonging to sellers just ordered,
// leaving other sellers' lines (added mid-checkout or excluded) untouched.
func (s *Service) pruneCart(ctx context.Context, userID string, created []models.Order, now time.Time) error {
	c, err := s.Carts.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	ordered := make(map[string]bool, len(created))
	for _, o := range created {
		ordered[o.SellerID] = true
	}

	kept := c.Items[:0]
	for _, it := range c.Items {
		if !ordered[it.SellerID] {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.Retotal()
	c.UpdatedAt = now
	return s.Carts.Upsert(ctx, c)
}

func grandTotal(created []models.Order) float64 {
	total := 0.0
	for _, o := range created {
		total += o.TotalAmount
	}
	return total
}
