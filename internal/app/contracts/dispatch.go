package contracts

import (
	"context"
	"time"
)

// OrderDispatchEvent notifies the downstream instrument or PACS system
// that an order transitioned. It is emitted after the ledger write
// commits, never before.
type OrderDispatchEvent struct {
	OrderID     string    `json:"order_id"`
	EncounterID string    `json:"encounter_id"`
	Kind        string    `json:"kind"`
	Action      string    `json:"action"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type DispatchPublisher interface {
	PublishOrderDispatch(ctx context.Context, event *OrderDispatchEvent) error
}
