package enums

import "fmt"

// OrderEventType is the canonical event_type for storefront order events
// consumed by the growth worker.
type OrderEventType string

const (
	OrderEventPlaced   OrderEventType = "order_placed"
	OrderEventCanceled OrderEventType = "order_canceled"
)

var validOrderEventTypes = []OrderEventType{
	OrderEventPlaced,
	OrderEventCanceled,
}

// IsValid reports whether the value matches the canonical order event_type enum.
func (o OrderEventType) IsValid() bool {
	for _, candidate := range validOrderEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderEventType converts the raw string to OrderEventType.
func ParseOrderEventType(value string) (OrderEventType, error) {
	for _, candidate := range validOrderEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event type %q", value)
}
