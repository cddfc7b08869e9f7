package insight

import (
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Coordinate is a geo point attached to a day bucket.
type Coordinate struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	DivisionName string  `json:"divisionName,omitempty"`
	District     string  `json:"district,omitempty"`
}

// DayBucket is one calendar day of order counts and revenue for one
// division (or the whole country), as produced by the analytics service.
// Buckets are immutable once received.
type DayBucket struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Day         int             `json:"day"`
	Division    string          `json:"divisionLabel,omitempty"`
	OrderCount  int64           `json:"orderCount"`
	Revenue     decimal.Decimal `json:"revenue"`
	Coordinates []Coordinate    `json:"coordinates"`
}

// Customer is the record shape carried inside segment buckets.
type Customer struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TotalOrders int64           `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	LastOrderAt *time.Time      `json:"lastOrderAt,omitempty"`
}

// SegmentsPayload maps each of the six segments to its customers. The
// analytics service guarantees the six arrays partition the population.
type SegmentsPayload map[enums.CustomerSegment][]Customer

// GrowthPrediction is an externally computed forecast for one location.
// The backend never produces these values, only aggregates over them.
type GrowthPrediction struct {
	Division              string            `json:"division"`
	District              string            `json:"district"`
	Lat                   float64           `json:"lat"`
	Lng                   float64           `json:"lng"`
	CurrentMonthlyOrders  float64           `json:"currentMonthlyOrders"`
	PredictedMonthlyOrder float64           `json:"predictedMonthlyOrders"`
	GrowthRate            float64           `json:"growthRate"`
	Trend                 enums.GrowthTrend `json:"trend"`
	Confidence            float64           `json:"confidence"`
}
