package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Routing keys published on the events exchange.
const (
	KeyOrderCreated       = "order.created"
	KeyOrderStatusUpdated = "order.status.updated"
	KeyMenuToggled        = "admin.menu.toggled"
	KeyPaymentRecorded    = "admin.payment.recorded"
)

// Event is the envelope every publisher emits. Type matches the routing
// key so the worker can dispatch without inspecting the rest.
type Event struct {
	Type         string    `json:"type"`
	RestaurantID int64     `json:"restaurantId"`
	OrderID      *int64    `json:"orderId,omitempty"`
	Status       *string   `json:"status,omitempty"`
	MenuEnabled  *bool     `json:"menuEnabled,omitempty"`
	Reason       *string   `json:"reason,omitempty"`
	Amount       *float64  `json:"amount,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// ProcessEvent translates one event delivery into a notification_jobs
// row for the restaurant's dashboard feed. Unknown event types are
// acked and dropped rather than retried forever.
func ProcessEvent(ctx context.Context, db *pgxpool.Pool, body []byte) error {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		// Malformed payloads can never succeed; drop.
		return nil
	}
	if event.RestaurantID == 0 {
		return nil
	}

	var kind string
	switch event.Type {
	case KeyOrderCreated:
		kind = "order_received"
	case KeyOrderStatusUpdated:
		kind = "order_progress"
	case KeyMenuToggled:
		kind = "enforcement_notice"
	case KeyPaymentRecorded:
		kind = "payment_receipt"
	default:
		return nil
	}

	if db == nil {
		return errors.New("no database for notification jobs")
	}

	query := `
		insert into notification_jobs (restaurant_id, kind, payload, status)
		values ($1, $2, $3, 'PENDING')
	`
	_, err := db.Exec(ctx, query, event.RestaurantID, kind, body)
	return err
}
