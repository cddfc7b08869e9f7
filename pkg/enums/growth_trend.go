package enums

import "fmt"

// GrowthTrend labels the direction of a per-location growth prediction.
type GrowthTrend string

const (
	TrendGrowing   GrowthTrend = "growing"
	TrendDeclining GrowthTrend = "declining"
	TrendStable    GrowthTrend = "stable"
)

var validGrowthTrends = []GrowthTrend{
	TrendGrowing,
	TrendDeclining,
	TrendStable,
}

// IsValid reports whether the value matches the canonical trend enum.
func (g GrowthTrend) IsValid() bool {
	for _, candidate := range validGrowthTrends {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGrowthTrend converts the raw string to GrowthTrend.
func ParseGrowthTrend(value string) (GrowthTrend, error) {
	for _, candidate := range validGrowthTrends {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid growth trend %q", value)
}
