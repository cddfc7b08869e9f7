package growthmap

import (
	"sort"
	"strconv"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/shopspring/decimal"
)

const dateKeyLayout = "2006-01-02"

// LocationTotal is the cumulative order volume folded onto one map point.
type LocationTotal struct {
	Lat        float64         `json:"lat"`
	Lng        float64         `json:"lng"`
	Division   string          `json:"division,omitempty"`
	District   string          `json:"district,omitempty"`
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// AnimationFrame is an immutable snapshot of the map for one calendar day.
// Totals never decrease across consecutive frames of the same fold.
type AnimationFrame struct {
	Date         string          `json:"date"`
	Orders       []LocationTotal `json:"orders"`
	TotalOrders  int64           `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

func locationKey(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "-" + strconv.FormatFloat(lng, 'f', -1, 64)
}

// bucketDateKey validates the bucket date by round-tripping it through
// time.Date. February 30th normalizes to a different day and is rejected.
func bucketDateKey(bucket insight.DayBucket) (string, bool) {
	if bucket.Year < 1 || bucket.Month < 1 || bucket.Month > 12 || bucket.Day < 1 || bucket.Day > 31 {
		return "", false
	}
	t := time.Date(bucket.Year, time.Month(bucket.Month), bucket.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != bucket.Year || int(t.Month()) != bucket.Month || t.Day() != bucket.Day {
		return "", false
	}
	return t.Format(dateKeyLayout), true
}

func snapshotFrame(date string, acc map[string]*LocationTotal, totalOrders int64, totalRevenue decimal.Decimal) AnimationFrame {
	orders := make([]LocationTotal, 0, len(acc))
	for _, entry := range acc {
		orders = append(orders, *entry)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Lat != orders[j].Lat {
			return orders[i].Lat < orders[j].Lat
		}
		return orders[i].Lng < orders[j].Lng
	})
	return AnimationFrame{
		Date:         date,
		Orders:       orders,
		TotalOrders:  totalOrders,
		TotalRevenue: totalRevenue,
	}
}
