package enums

import "testing"

func TestCustomerSegmentsPartition(t *testing.T) {
	segments := CustomerSegments()
	if len(segments) != 6 {
		t.Fatalf("expected exactly six segments, got %d", len(segments))
	}
	seen := map[CustomerSegment]bool{}
	for _, s := range segments {
		if !s.IsValid() {
			t.Fatalf("segment %q should be valid", s)
		}
		if seen[s] {
			t.Fatalf("segment %q listed twice", s)
		}
		seen[s] = true
	}
}

func TestParseCustomerSegment(t *testing.T) {
	if _, err := ParseCustomerSegment("high-value-frequent"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseCustomerSegment("whales"); err == nil {
		t.Fatalf("expected error for unknown segment")
	}
}

func TestParseGrowthTrend(t *testing.T) {
	for _, raw := range []string{"growing", "declining", "stable"} {
		trend, err := ParseGrowthTrend(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if !trend.IsValid() {
			t.Fatalf("trend %q should be valid", trend)
		}
	}
	if _, err := ParseGrowthTrend("sideways"); err == nil {
		t.Fatalf("expected error for unknown trend")
	}
}
