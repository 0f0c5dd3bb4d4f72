package checkout

import (
	"time"

	"dokan/models"
)

// SellerGroup is one seller's share of a checkout.
type SellerGroup struct {
	SellerID string
	Items    []models.CartItem
}

// SplitBySeller partitions lines by seller, preserving the order sellers
// first appear in. One checkout legitimately produces one order per group.
func SplitBySeller(lines []models.CartItem) []SellerGroup {
	index := make(map[string]int, len(lines))
	groups := make([]SellerGroup, 0, len(lines))

	for _, line := range lines {
		i, ok := index[line.SellerID]
		if !ok {
			i = len(groups)
			index[line.SellerID] = i
			groups = append(groups, SellerGroup{SellerID: line.SellerID})
		}
		groups[i].Items = append(groups[i].Items, line)
	}
	return groups
}

// buildOrder snapshots one seller group into an order. Cart line prices
// already include quantity, so the group subtotal is their plain sum; order
// items carry the unit price so the snapshot stays meaningful if quantities
// are ever inspected per unit.
func buildOrder(userID string, group SellerGroup, paymentMethod string, address models.ShippingAddress, shippingCost float64, now time.Time) models.Order {
	items := make([]models.OrderItem, 0, len(group.Items))
	subTotal := 0.0

	for _, line := range group.Items {
		unit := line.Price
		if line.Quantity > 0 {
			unit = line.Price / float64(line.Quantity)
		}
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			Color:       line.Color,
			Size:        line.Size,
			SKU:         line.SKU,
			Price:       unit,
			Quantity:    line.Quantity,
			Image:       line.Image,
			SellerID:    line.SellerID,
		})
		subTotal += line.Price
	}

	return models.Order{
		UserID:       userID,
		SellerID:     group.SellerID,
		Items:        items,
		SubTotal:     subTotal,
		ShippingCost: shippingCost,
		TotalAmount:  subTotal + shippingCost,
		Payment: models.Payment{
			Method: paymentMethod,
			Status: models.PaymentPending,
		},
		OrderStatus: models.StatusProcessing,
		StatusTimeline: []models.TimelineEntry{
			{
				Status:    models.StatusProcessing,
				Message:   "Order has been placed.",
				UpdatedAt: now,
			},
		},
		ShippingAddress: address,
		CreatedAt:       now,
	}
}
