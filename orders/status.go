// Package orders owns the order lifecycle after checkout: status and payment
// transitions, the append-only status timeline, order queries, and the
// seller dashboard aggregates.
package orders

import (
	"fmt"
	"time"

	"dokan/models"
)

// The wire format is a free string, but internally the status set is closed
// and transitions are validated. The source system accepted arbitrary
// strings; validating here is a deliberate tightening.
var canonicalStatuses = map[string]bool{
	models.StatusProcessing: true,
	models.StatusShipped:    true,
	models.StatusDelivered:  true,
	models.StatusCancelled:  true,
}

func ValidStatus(s string) bool {
	return canonicalStatuses[s]
}

// CanTransition reports whether an order may move from one status to the
// next: Processing -> Shipped -> Delivered linearly, Cancelled from any
// non-terminal state. Delivered and Cancelled are terminal.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	switch from {
	case models.StatusProcessing:
		return to == models.StatusShipped || to == models.StatusCancelled
	case models.StatusShipped:
		return to == models.StatusDelivered || to == models.StatusCancelled
	default:
		return false
	}
}

// StatusChangeEntry builds the timeline record appended on every status
// update.
func StatusChangeEntry(status string, now time.Time) models.TimelineEntry {
	return models.TimelineEntry{
		Status:    status,
		Message:   fmt.Sprintf("Order status changed to %s", status),
		UpdatedAt: now,
	}
}

// PaymentEntry builds the timeline record appended on a payment update. A
// confirmed payment reads differently from any other payment state.
func PaymentEntry(paymentStatus string, now time.Time) models.TimelineEntry {
	if paymentStatus == models.PaymentPaid {
		return models.TimelineEntry{
			Status:    "Payment Received",
			Message:   "Payment confirmed.",
			UpdatedAt: now,
		}
	}
	return models.TimelineEntry{
		Status:    fmt.Sprintf("Payment %s", paymentStatus),
		Message:   fmt.Sprintf("Payment status updated to %s", paymentStatus),
		UpdatedAt: now,
	}
}
