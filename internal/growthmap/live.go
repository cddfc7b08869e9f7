package growthmap

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/shopspring/decimal"
)

// Live day buckets are Redis hashes written by the ingest worker and read
// back here. Fields encode the measure and the coordinate:
//
//	o|<lat>|<lng>  order count (integer)
//	r|<lat>|<lng>  revenue (decimal string)
const (
	liveOrdersKind  = "o"
	liveRevenueKind = "r"
	liveFieldSep    = "|"
)

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// LiveOrdersField names the hash field holding the order count for a point.
func LiveOrdersField(lat, lng float64) string {
	return strings.Join([]string{liveOrdersKind, formatCoord(lat), formatCoord(lng)}, liveFieldSep)
}

// LiveRevenueField names the hash field holding the revenue for a point.
func LiveRevenueField(lat, lng float64) string {
	return strings.Join([]string{liveRevenueKind, formatCoord(lat), formatCoord(lng)}, liveFieldSep)
}

type liveEntry struct {
	lat     float64
	lng     float64
	orders  int64
	revenue decimal.Decimal
}

// BucketsFromLiveHash converts a live hash into day buckets, one per
// coordinate so each bucket's count belongs to exactly that point.
// Unparseable fields are dropped.
func BucketsFromLiveHash(day time.Time, division string, fields map[string]string) []insight.DayBucket {
	entries := make(map[string]*liveEntry)

	entryFor := func(lat, lng float64) *liveEntry {
		key := locationKey(lat, lng)
		entry, ok := entries[key]
		if !ok {
			entry = &liveEntry{lat: lat, lng: lng, revenue: decimal.Zero}
			entries[key] = entry
		}
		return entry
	}

	for field, raw := range fields {
		parts := strings.Split(field, liveFieldSep)
		if len(parts) != 3 {
			continue
		}
		lat, latErr := strconv.ParseFloat(parts[1], 64)
		lng, lngErr := strconv.ParseFloat(parts[2], 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		switch parts[0] {
		case liveOrdersKind:
			count, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			entryFor(lat, lng).orders = count
		case liveRevenueKind:
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				continue
			}
			entryFor(lat, lng).revenue = amount
		}
	}

	buckets := make([]insight.DayBucket, 0, len(entries))
	for _, entry := range entries {
		if entry.orders <= 0 && !entry.revenue.IsPositive() {
			continue
		}
		buckets = append(buckets, insight.DayBucket{
			Year:       day.Year(),
			Month:      int(day.Month()),
			Day:        day.Day(),
			Division:   division,
			OrderCount: entry.orders,
			Revenue:    entry.revenue,
			Coordinates: []insight.Coordinate{{
				Lat:          entry.lat,
				Lng:          entry.lng,
				DivisionName: division,
			}},
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i].Coordinates[0], buckets[j].Coordinates[0]
		if a.Lat != b.Lat {
			return a.Lat < b.Lat
		}
		return a.Lng < b.Lng
	})
	return buckets
}
