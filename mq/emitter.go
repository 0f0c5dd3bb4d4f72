package mq

import (
	"context"
	"encoding/json"
	"log"

	"dokan/rdx"
)

// Event is a domain event published on the orders channel. Consumers are
// out-of-process (notification senders, search indexers).
type Event struct {
	Name     string `json:"name"`
	EntityID string `json:"entity_id"`
	UserID   string `json:"user_id,omitempty"`
	SellerID string `json:"seller_id,omitempty"`
}

const channel = "order-events"

// Emit publishes a domain event to Redis. Failures are logged, never fatal:
// checkout must not depend on the event bus being up.
func Emit(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", ev.Name, err)
	}
}

// StartEventLogger subscribes to the orders channel and logs every event.
// It stands in for downstream consumers during local development.
func StartEventLogger() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[EventLogger] Listening for order events...")

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[EventLogger] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventLogger] event=%s entity=%s", ev.Name, ev.EntityID)
	}
}
