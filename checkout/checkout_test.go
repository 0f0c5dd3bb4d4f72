package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"dokan/cart"
	"dokan/inventory"
	"dokan/models"
	"dokan/orders"
	"dokan/products"
	"dokan/shipping"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type memCartStore struct {
	carts map[string]*models.Cart
}

func (m *memCartStore) GetByUser(_ context.Context, userID string) (*models.Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (m *memCartStore) Upsert(_ context.Context, c *models.Cart) error {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	m.carts[c.UserID] = &cp
	return nil
}

type memCatalog struct {
	byID map[string]*models.Product
}

func (m *memCatalog) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return p, nil
}

type memOrderStore struct {
	inserted  []models.Order
	failAfter int // fail inserts once len(inserted) reaches this; 0 = never
}

func (m *memOrderStore) Insert(_ context.Context, o *models.Order) error {
	if m.failAfter > 0 && len(m.inserted) >= m.failAfter {
		return errors.New("storage down")
	}
	m.inserted = append(m.inserted, *o)
	return nil
}

func (m *memOrderStore) ByID(_ context.Context, id string) (*models.Order, error) {
	for i := range m.inserted {
		if m.inserted[i].ID == id {
			return &m.inserted[i], nil
		}
	}
	return nil, orders.ErrOrderNotFound
}

func (m *memOrderStore) List(context.Context, orders.Filter) ([]models.Order, int64, error) {
	return m.inserted, int64(len(m.inserted)), nil
}

func (m *memOrderStore) UpdateStatus(context.Context, string, string) error  { return nil }
func (m *memOrderStore) UpdatePayment(context.Context, string, string, string) error {
	return nil
}
func (m *memOrderStore) AddTimeline(context.Context, string, models.TimelineEntry) error {
	return nil
}

type stockCall struct {
	productID, variantID string
	qty                  int
}

type memStock struct {
	decreased []stockCall
}

func (m *memStock) IncreaseStock(_ context.Context, p, v string, q int) error { return nil }
func (m *memStock) DecreaseStock(_ context.Context, p, v string, q int) error {
	m.decreased = append(m.decreased, stockCall{p, v, q})
	return nil
}
func (m *memStock) SetStock(_ context.Context, p, v string, q int) error { return nil }

var _ inventory.Adjuster = (*memStock)(nil)

type fixture struct {
	svc    *Service
	carts  *memCartStore
	orders *memOrderStore
	stock  *memStock
}

func newFixture(catalog map[string]*models.Product) *fixture {
	f := &fixture{
		carts:  &memCartStore{carts: make(map[string]*models.Cart)},
		orders: &memOrderStore{},
		stock:  &memStock{},
	}
	f.svc = NewService(f.carts, &memCatalog{byID: catalog}, f.orders, f.stock)
	f.svc.Now = func() time.Time { return testNow }
	n := 0
	f.svc.NewID = func() string { n++; return fmt.Sprintf("order-%d", n) }
	f.svc.Events = nil
	return f
}

// line builds a cart line whose Price is the line total (unit * qty).
func line(productID, sellerID string, unit float64, qty int) models.CartItem {
	return models.CartItem{
		ProductID:   productID,
		ProductName: "P-" + productID,
		SellerID:    sellerID,
		Quantity:    qty,
		Price:       unit * float64(qty),
	}
}

func mixedCart(userID string) *models.Cart {
	return &models.Cart{
		ID:     "cart-1",
		UserID: userID,
		Items: []models.CartItem{
			line("p1", "sellerA", 50, 1),
			line("p2", "sellerA", 50, 1),
			line("p3", "sellerB", 30, 2),
		},
		TotalAmount: 160,
	}
}

func baseRequest() Request {
	return Request{
		PaymentMethod: "cod",
		ShippingAddress: models.ShippingAddress{
			FullName: "Test Buyer",
			Phone:    "01700000000",
			Address:  "House 1, Road 2",
			City:     "Dhaka",
		},
	}
}

func TestCheckoutSellerSplit(t *testing.T) {
	f := newFixture(nil)
	f.carts.carts["u1"] = mixedCart("u1")

	res, err := f.svc.Checkout(context.Background(), "u1", baseRequest())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(res.Orders))
	}

	bySeller := map[string]models.Order{}
	for _, o := range res.Orders {
		bySeller[o.SellerID] = o
	}
	if got := bySeller["sellerA"].SubTotal; got != 100 {
		t.Errorf("seller A subtotal = %v, want 100", got)
	}
	if got := bySeller["sellerB"].SubTotal; got != 60 {
		t.Errorf("seller B subtotal = %v, want 60", got)
	}
	for _, o := range res.Orders {
		if o.TotalAmount != o.SubTotal+o.ShippingCost {
			t.Errorf("order %s total %v != subtotal %v + shipping %v", o.ID, o.TotalAmount, o.SubTotal, o.ShippingCost)
		}
	}
}

func TestCheckoutShippingTier(t *testing.T) {
	cases := []struct {
		city string
		want float64
	}{
		{"Dhaka", shipping.DhakaRate},
		{"  dhaka ", shipping.DhakaRate},
		{"Khulna", shipping.DefaultRate},
	}
	for _, c := range cases {
		f := newFixture(nil)
		f.carts.carts["u1"] = mixedCart("u1")
		req := baseRequest()
		req.ShippingAddress.City = c.city

		res, err := f.svc.Checkout(context.Background(), "u1", req)
		if err != nil {
			t.Fatal(err)
		}
		for _, o := range res.Orders {
			if o.ShippingCost != c.want {
				t.Errorf("city %q: shipping = %v, want %v", c.city, o.ShippingCost, c.want)
			}
		}
	}
}

func TestCheckoutPrunesOnlyOrderedSellers(t *testing.T) {
	// Only seller A's lines in the cart at checkout time; seller B's line is
	// written mid-flight and must survive the prune.
	f := newFixture(nil)
	f.carts.carts["u1"] = &models.Cart{
		ID:     "cart-1",
		UserID: "u1",
		Items: []models.CartItem{
			line("p1", "sellerA", 50, 1),
			line("p3", "sellerB", 30, 2),
		},
		TotalAmount: 110,
	}

	res, err := f.svc.Checkout(context.Background(), "u1", baseRequest())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 2 {
		t.Fatalf("expected both sellers ordered, got %d orders", len(res.Orders))
	}

	after := f.carts.carts["u1"]
	if len(after.Items) != 0 {
		t.Errorf("expected emptied cart, got %d lines", len(after.Items))
	}
	if after.TotalAmount != 0 {
		t.Errorf("cart total = %v, want 0", after.TotalAmount)
	}
}

func TestCheckoutPruneLeavesOtherSellers(t *testing.T) {
	f := newFixture(map[string]*models.Product{
		"p1": {ProductID: "p1", SellerID: "sellerA", Name: "Solo", Price: 200},
	})
	f.carts.carts["u1"] = &models.Cart{
		ID:     "cart-1",
		UserID: "u1",
		Items: []models.CartItem{
			line("p3", "sellerB", 30, 2),
		},
		TotalAmount: 60,
	}

	// buy-now targets seller A only; seller B's cart line must be untouched
	req := baseRequest()
	req.ProductID = "p1"
	res, err := f.svc.Checkout(context.Background(), "u1", req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(res.Orders))
	}

	after := f.carts.carts["u1"]
	if len(after.Items) != 1 || after.Items[0].SellerID != "sellerB" {
		t.Fatalf("buy-now should not touch the cart: %+v", after.Items)
	}
	if after.TotalAmount != 60 {
		t.Errorf("cart total = %v, want 60", after.TotalAmount)
	}
}

func TestCheckoutMixedCartPruneScope(t *testing.T) {
	// Simulate a failure creating seller B's order by making the store fail
	// after the first insert; seller A's order stands, and only seller A's
	// lines would have been pruned on success. Here the whole call errors,
	// so the cart is untouched, but the committed order remains.
	f := newFixture(nil)
	f.orders.failAfter = 1
	f.carts.carts["u1"] = mixedCart("u1")

	_, err := f.svc.Checkout(context.Background(), "u1", baseRequest())
	if err == nil {
		t.Fatal("expected error from second insert")
	}
	if len(f.orders.inserted) != 1 {
		t.Fatalf("expected 1 committed order, got %d", len(f.orders.inserted))
	}
	after := f.carts.carts["u1"]
	if len(after.Items) != 3 {
		t.Errorf("cart must be untouched after failed checkout, got %d lines", len(after.Items))
	}
}

func TestCheckoutCODNeverReturnsPaymentURL(t *testing.T) {
	for _, method := range []string{"cod", "COD", "Cod"} {
		f := newFixture(nil)
		f.carts.carts["u1"] = mixedCart("u1")
		req := baseRequest()
		req.PaymentMethod = method

		res, err := f.svc.Checkout(context.Background(), "u1", req)
		if err != nil {
			t.Fatal(err)
		}
		if res.PaymentURL != "" {
			t.Errorf("method %q: unexpected paymentUrl %q", method, res.PaymentURL)
		}
	}
}

func TestCheckoutGatewayReturnsPaymentURL(t *testing.T) {
	f := newFixture(nil)
	f.carts.carts["u1"] = mixedCart("u1")
	req := baseRequest()
	req.PaymentMethod = "bkash"

	res, err := f.svc.Checkout(context.Background(), "u1", req)
	if err != nil {
		t.Fatal(err)
	}
	if res.PaymentURL == "" {
		t.Fatal("expected a paymentUrl for gateway method")
	}
	// keyed by the first created order
	want := "https://paymentgateway.com/pay?orderId=" + res.Orders[0].ID
	if res.PaymentURL != want {
		t.Errorf("paymentUrl = %q, want %q", res.PaymentURL, want)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.Checkout(context.Background(), "u1", baseRequest())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(f.orders.inserted) != 0 {
		t.Errorf("no orders may be created on empty cart, got %d", len(f.orders.inserted))
	}

	// present but empty cart behaves the same
	f.carts.carts["u1"] = &models.Cart{ID: "c", UserID: "u1", Items: []models.CartItem{}}
	_, err = f.svc.Checkout(context.Background(), "u1", baseRequest())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutUnauthenticated(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.Checkout(context.Background(), "", baseRequest())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCheckoutBuyNowPricesLive(t *testing.T) {
	p := &models.Product{
		ProductID: "p1",
		SellerID:  "sellerA",
		Name:      "Kettle",
		Price:     1000,
		Variants: []models.Variant{
			{VariantID: "v1", Color: "steel", Price: 1200, Stock: 3},
		},
		Discounts: []models.Discount{
			{Code: "SAVE10", Percentage: 10, ValidFrom: testNow.AddDate(0, 0, -1), ValidTo: testNow.AddDate(0, 0, 1), IsActive: true},
		},
	}
	f := newFixture(map[string]*models.Product{"p1": p})

	req := baseRequest()
	req.ProductID = "p1"
	req.VariantID = "v1"
	res, err := f.svc.Checkout(context.Background(), "u1", req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(res.Orders))
	}
	o := res.Orders[0]
	// 1200 - 10% = 1080, qty 1
	if o.SubTotal != 1080 {
		t.Errorf("subtotal = %v, want 1080", o.SubTotal)
	}
	if o.Items[0].Color != "steel" {
		t.Error("variant attributes not snapshotted")
	}
}

func TestCheckoutBuyNowUnknownProductAndVariant(t *testing.T) {
	f := newFixture(map[string]*models.Product{
		"p1": {ProductID: "p1", SellerID: "sellerA", Name: "Kettle", Price: 100},
	})

	req := baseRequest()
	req.ProductID = "missing"
	if _, err := f.svc.Checkout(context.Background(), "u1", req); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	req.ProductID = "p1"
	req.VariantID = "ghost"
	if _, err := f.svc.Checkout(context.Background(), "u1", req); !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("expected ErrInvalidVariant, got %v", err)
	}
}

func TestCheckoutDecrementsStockPerLine(t *testing.T) {
	f := newFixture(nil)
	f.carts.carts["u1"] = mixedCart("u1")

	if _, err := f.svc.Checkout(context.Background(), "u1", baseRequest()); err != nil {
		t.Fatal(err)
	}
	if len(f.stock.decreased) != 3 {
		t.Fatalf("expected 3 stock decrements, got %d", len(f.stock.decreased))
	}
	for _, call := range f.stock.decreased {
		if call.productID == "p3" && call.qty != 2 {
			t.Errorf("p3 decremented by %d, want 2", call.qty)
		}
	}
}

func TestCheckoutInitialTimeline(t *testing.T) {
	f := newFixture(nil)
	f.carts.carts["u1"] = mixedCart("u1")

	res, err := f.svc.Checkout(context.Background(), "u1", baseRequest())
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range res.Orders {
		if o.OrderStatus != models.StatusProcessing {
			t.Errorf("order status = %q", o.OrderStatus)
		}
		if len(o.StatusTimeline) != 1 {
			t.Fatalf("timeline length = %d", len(o.StatusTimeline))
		}
		e := o.StatusTimeline[0]
		if e.Status != models.StatusProcessing || e.Message != "Order has been placed." {
			t.Errorf("initial entry = %+v", e)
		}
		if o.Payment.Status != models.PaymentPending {
			t.Errorf("payment status = %q", o.Payment.Status)
		}
	}
}

func TestCheckoutMissingRequiredFields(t *testing.T) {
	f := newFixture(nil)
	f.carts.carts["u1"] = mixedCart("u1")

	req := baseRequest()
	req.PaymentMethod = " "
	if _, err := f.svc.Checkout(context.Background(), "u1", req); !errors.Is(err, ErrMissingPayment) {
		t.Fatalf("expected ErrMissingPayment, got %v", err)
	}

	req = baseRequest()
	req.ShippingAddress.City = ""
	if _, err := f.svc.Checkout(context.Background(), "u1", req); !errors.Is(err, ErrMissingAddress) {
		t.Fatalf("expected ErrMissingAddress, got %v", err)
	}
}

func TestSplitBySellerPreservesOrder(t *testing.T) {
	groups := SplitBySeller([]models.CartItem{
		line("p1", "sellerB", 10, 1),
		line("p2", "sellerA", 10, 1),
		line("p3", "sellerB", 10, 1),
	})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].SellerID != "sellerB" || groups[1].SellerID != "sellerA" {
		t.Errorf("group order = %s, %s", groups[0].SellerID, groups[1].SellerID)
	}
	if len(groups[0].Items) != 2 {
		t.Errorf("seller B group size = %d", len(groups[0].Items))
	}
}
