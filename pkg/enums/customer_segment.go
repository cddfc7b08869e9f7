package enums

import "fmt"

// CustomerSegment is one of the six mutually exclusive customer buckets
// produced by the analytics service.
type CustomerSegment string

const (
	SegmentHighValueFrequent   CustomerSegment = "high-value-frequent"
	SegmentHighValueOccasional CustomerSegment = "high-value-occasional"
	SegmentLowValueFrequent    CustomerSegment = "low-value-frequent"
	SegmentLowValueOccasional  CustomerSegment = "low-value-occasional"
	SegmentNewCustomers        CustomerSegment = "new-customers"
	SegmentChurnedCustomers    CustomerSegment = "churned-customers"
)

var validCustomerSegments = []CustomerSegment{
	SegmentHighValueFrequent,
	SegmentHighValueOccasional,
	SegmentLowValueFrequent,
	SegmentLowValueOccasional,
	SegmentNewCustomers,
	SegmentChurnedCustomers,
}

// CustomerSegments returns every segment in canonical order.
func CustomerSegments() []CustomerSegment {
	out := make([]CustomerSegment, len(validCustomerSegments))
	copy(out, validCustomerSegments)
	return out
}

// IsValid reports whether the value matches the canonical segment enum.
func (s CustomerSegment) IsValid() bool {
	for _, candidate := range validCustomerSegments {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCustomerSegment converts the raw string to CustomerSegment.
func ParseCustomerSegment(value string) (CustomerSegment, error) {
	for _, candidate := range validCustomerSegments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer segment %q", value)
}
