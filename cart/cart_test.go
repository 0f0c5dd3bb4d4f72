package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"dokan/models"
	"dokan/products"
)

type memStore struct {
	carts map[string]*models.Cart
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]*models.Cart)}
}

func (m *memStore) GetByUser(_ context.Context, userID string) (*models.Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (m *memStore) Upsert(_ context.Context, cart *models.Cart) error {
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = &cp
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

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestService(catalog map[string]*models.Product) (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store, &memCatalog{byID: catalog})
	svc.Now = func() time.Time { return testNow }
	return svc, store
}

func simpleProduct(id, seller string, price float64) *models.Product {
	return &models.Product{ProductID: id, SellerID: seller, Name: "P-" + id, Price: price}
}

func TestAddItemNewLine(t *testing.T) {
	svc, _ := newTestService(map[string]*models.Product{
		"p1": simpleProduct("p1", "sellerA", 50),
	})

	c, err := svc.AddItem(context.Background(), "u1", "p1", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Items))
	}
	if c.Items[0].Price != 100 {
		t.Errorf("line price = %v, want 100", c.Items[0].Price)
	}
	if c.TotalAmount != 100 {
		t.Errorf("total = %v, want 100", c.TotalAmount)
	}
}

func TestAddItemMergesSameLine(t *testing.T) {
	svc, _ := newTestService(map[string]*models.Product{
		"p1": simpleProduct("p1", "sellerA", 50),
	})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, "u1", "p1", "", 2); err != nil {
		t.Fatal(err)
	}
	c, err := svc.AddItem(ctx, "u1", "p1", "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected merged single line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", c.Items[0].Quantity)
	}
	if c.Items[0].Price != 250 {
		t.Errorf("line price = %v, want 250", c.Items[0].Price)
	}
}

func TestAddItemVariantPricing(t *testing.T) {
	p := simpleProduct("p1", "sellerA", 50)
	p.Variants = []models.Variant{
		{VariantID: "v1", Color: "red", SKU: "R-1", Price: 80, Stock: 5},
	}
	p.Discounts = []models.Discount{
		{Code: "SAVE25", Percentage: 25, ValidFrom: testNow.AddDate(0, 0, -1), ValidTo: testNow.AddDate(0, 0, 1), IsActive: true},
	}
	svc, _ := newTestService(map[string]*models.Product{"p1": p})

	c, err := svc.AddItem(context.Background(), "u1", "p1", "v1", 2)
	if err != nil {
		t.Fatal(err)
	}
	// 80 - 25% = 60 per unit
	if c.Items[0].Price != 120 {
		t.Errorf("line price = %v, want 120", c.Items[0].Price)
	}
	if c.Items[0].Color != "red" || c.Items[0].SKU != "R-1" {
		t.Error("variant attributes not snapshotted")
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTestService(map[string]*models.Product{})
	_, err := svc.AddItem(context.Background(), "u1", "missing", "", 1)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddItemUnknownVariant(t *testing.T) {
	svc, _ := newTestService(map[string]*models.Product{
		"p1": simpleProduct("p1", "sellerA", 50),
	})
	_, err := svc.AddItem(context.Background(), "u1", "p1", "nope", 1)
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestUpdateQuantityReprices(t *testing.T) {
	p := simpleProduct("p1", "sellerA", 100)
	svc, store := newTestService(map[string]*models.Product{"p1": p})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, "u1", "p1", "", 1); err != nil {
		t.Fatal(err)
	}

	// seller adds a discount after the line was snapshotted
	p.Discounts = []models.Discount{
		{Code: "SALE", Percentage: 50, ValidFrom: testNow.AddDate(0, 0, -1), ValidTo: testNow.AddDate(0, 0, 1), IsActive: true},
	}

	c, err := svc.UpdateQuantity(ctx, "u1", "p1", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Items[0].Price != 100 { // 50 * 2, not the stale 100 * 2
		t.Errorf("line price = %v, want repriced 100", c.Items[0].Price)
	}
	if got := store.carts["u1"].TotalAmount; got != 100 {
		t.Errorf("persisted total = %v, want 100", got)
	}
}

func TestCartTotalInvariant(t *testing.T) {
	svc, store := newTestService(map[string]*models.Product{
		"p1": simpleProduct("p1", "sellerA", 50),
		"p2": simpleProduct("p2", "sellerB", 30),
	})

	ctx := context.Background()
	svc.AddItem(ctx, "u1", "p1", "", 2)
	svc.AddItem(ctx, "u1", "p2", "", 1)
	svc.UpdateQuantity(ctx, "u1", "p2", "", 3)
	c, err := svc.RemoveItem(ctx, "u1", "p1", "")
	if err != nil {
		t.Fatal(err)
	}

	sum := 0.0
	for _, it := range c.Items {
		sum += it.Price
	}
	if c.TotalAmount != sum {
		t.Errorf("total %v != sum of lines %v", c.TotalAmount, sum)
	}
	if got := store.carts["u1"].TotalAmount; got != sum {
		t.Errorf("persisted total %v != %v", got, sum)
	}
}

func TestClearCart(t *testing.T) {
	svc, _ := newTestService(map[string]*models.Product{
		"p1": simpleProduct("p1", "sellerA", 50),
	})

	ctx := context.Background()
	svc.AddItem(ctx, "u1", "p1", "", 2)
	c, err := svc.Clear(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 0 || c.TotalAmount != 0 {
		t.Errorf("cart not cleared: %d items, total %v", len(c.Items), c.TotalAmount)
	}
}

func TestRemoveMissingItem(t *testing.T) {
	svc, _ := newTestService(map[string]*models.Product{
		"p1": simpleProduct("p1", "sellerA", 50),
	})
	ctx := context.Background()
	svc.AddItem(ctx, "u1", "p1", "", 1)
	_, err := svc.RemoveItem(ctx, "u1", "other", "")
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
