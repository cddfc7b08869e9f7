package ingest

import (
	"encoding/json"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PayloadEnvelope is the stable wire structure the storefront outbox
// publishes on the orders topic.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Envelope is the decoded event handed to the router.
type Envelope struct {
	EventID    string
	EventType  enums.OrderEventType
	OccurredAt time.Time
	Payload    json.RawMessage
}

// OrderEvent is the payload shared by order_placed and order_canceled.
// Coordinates point at the delivery address.
type OrderEvent struct {
	OrderID  string          `json:"orderId"`
	Division string          `json:"division"`
	District string          `json:"district,omitempty"`
	Lat      float64         `json:"lat"`
	Lng      float64         `json:"lng"`
	Total    decimal.Decimal `json:"total"`
}
