package growthmap

import (
	"context"
	"sort"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/nazmulcodes/deshcart-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// FrameAggregator folds day buckets into cumulative animation frames. The
// accumulator lives for one Fold call and is never reset between frames, so
// every frame carries the full history up to its date.
type FrameAggregator struct {
	logg  *logger.Logger
	stats *metrics.GrowthMetrics
}

func NewFrameAggregator(logg *logger.Logger, stats *metrics.GrowthMetrics) *FrameAggregator {
	return &FrameAggregator{logg: logg, stats: stats}
}

// Fold groups buckets by calendar day, sorts the days ascending and produces
// one frame per day. Buckets with dates that do not exist on the calendar are
// skipped with a warning. Each coordinate listed on a bucket receives the full
// bucket order count and revenue.
func (a *FrameAggregator) Fold(ctx context.Context, division string, buckets []insight.DayBucket) []AnimationFrame {
	start := time.Now()

	grouped := make(map[string][]insight.DayBucket)
	for _, bucket := range buckets {
		key, ok := bucketDateKey(bucket)
		if !ok {
			a.stats.IncSkippedBucket()
			if a.logg != nil {
				entry := a.logg.WithFields(ctx, map[string]any{
					"year":  bucket.Year,
					"month": bucket.Month,
					"day":   bucket.Day,
				})
				a.logg.Warn(entry, "skipping day bucket with malformed date")
			}
			continue
		}
		grouped[key] = append(grouped[key], bucket)
	}

	frames := make([]AnimationFrame, 0, len(grouped))
	if len(grouped) == 0 {
		return frames
	}

	dates := make([]string, 0, len(grouped))
	for key := range grouped {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	acc := make(map[string]*LocationTotal)
	var totalOrders int64
	totalRevenue := decimal.Zero

	for _, date := range dates {
		for _, bucket := range grouped[date] {
			for _, coord := range bucket.Coordinates {
				key := locationKey(coord.Lat, coord.Lng)
				entry, ok := acc[key]
				if !ok {
					entry = &LocationTotal{
						Lat:      coord.Lat,
						Lng:      coord.Lng,
						Division: coord.DivisionName,
						District: coord.District,
						Revenue:  decimal.Zero,
					}
					acc[key] = entry
				}
				entry.OrderCount += bucket.OrderCount
				entry.Revenue = entry.Revenue.Add(bucket.Revenue)
				totalOrders += bucket.OrderCount
				totalRevenue = totalRevenue.Add(bucket.Revenue)
			}
		}
		frames = append(frames, snapshotFrame(date, acc, totalOrders, totalRevenue))
	}

	a.stats.ObserveFold(division, time.Since(start), len(frames))
	return frames
}
