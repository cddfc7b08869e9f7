package growthmap

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "growthmap-test",
		Level:       zerolog.WarnLevel,
		Output:      buf,
	})
}

var (
	dhakaCoord      = insight.Coordinate{Lat: 23.8103, Lng: 90.4125, DivisionName: "Dhaka", District: "Dhaka"}
	chattogramCoord = insight.Coordinate{Lat: 22.3569, Lng: 91.7832, DivisionName: "Chattogram", District: "Chattogram"}
)

func bucket(year, month, day int, count int64, revenue string, coords ...insight.Coordinate) insight.DayBucket {
	return insight.DayBucket{
		Year:        year,
		Month:       month,
		Day:         day,
		OrderCount:  count,
		Revenue:     decimal.RequireFromString(revenue),
		Coordinates: coords,
	}
}

func TestFoldAccumulatesAcrossDays(t *testing.T) {
	agg := NewFrameAggregator(testLogger(&bytes.Buffer{}), nil)

	frames := agg.Fold(context.Background(), "", []insight.DayBucket{
		bucket(2024, 1, 1, 5, "500", dhakaCoord),
		bucket(2024, 1, 2, 3, "300", dhakaCoord),
		bucket(2024, 1, 2, 2, "200", chattogramCoord),
	})

	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}

	first := frames[0]
	if first.Date != "2024-01-01" {
		t.Fatalf("unexpected first frame date %q", first.Date)
	}
	if first.TotalOrders != 5 {
		t.Fatalf("expected first frame total 5, got %d", first.TotalOrders)
	}
	if len(first.Orders) != 1 || first.Orders[0].OrderCount != 5 {
		t.Fatalf("unexpected first frame orders %+v", first.Orders)
	}

	second := frames[1]
	if second.Date != "2024-01-02" {
		t.Fatalf("unexpected second frame date %q", second.Date)
	}
	if second.TotalOrders != 10 {
		t.Fatalf("expected second frame total 10, got %d", second.TotalOrders)
	}
	if !second.TotalRevenue.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected second frame revenue 1000, got %s", second.TotalRevenue)
	}
	if len(second.Orders) != 2 {
		t.Fatalf("expected two locations on second frame, got %d", len(second.Orders))
	}
	for _, loc := range second.Orders {
		switch loc.District {
		case "Dhaka":
			if loc.OrderCount != 8 {
				t.Fatalf("expected Dhaka cumulative 8, got %d", loc.OrderCount)
			}
		case "Chattogram":
			if loc.OrderCount != 2 {
				t.Fatalf("expected Chattogram cumulative 2, got %d", loc.OrderCount)
			}
		default:
			t.Fatalf("unexpected district %q", loc.District)
		}
	}
}

func TestFoldSortsUnorderedInput(t *testing.T) {
	agg := NewFrameAggregator(testLogger(&bytes.Buffer{}), nil)

	frames := agg.Fold(context.Background(), "Dhaka", []insight.DayBucket{
		bucket(2024, 2, 10, 1, "10", dhakaCoord),
		bucket(2023, 12, 31, 1, "10", dhakaCoord),
		bucket(2024, 1, 5, 1, "10", dhakaCoord),
	})

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	want := []string{"2023-12-31", "2024-01-05", "2024-02-10"}
	for i, frame := range frames {
		if frame.Date != want[i] {
			t.Fatalf("frame %d: expected date %s, got %s", i, want[i], frame.Date)
		}
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].TotalOrders < frames[i-1].TotalOrders {
			t.Fatalf("totals decreased between frames %d and %d", i-1, i)
		}
	}
}

func TestFoldMergesBucketsOnSameDay(t *testing.T) {
	agg := NewFrameAggregator(testLogger(&bytes.Buffer{}), nil)

	frames := agg.Fold(context.Background(), "", []insight.DayBucket{
		bucket(2024, 3, 1, 4, "40", dhakaCoord),
		bucket(2024, 3, 1, 6, "60", dhakaCoord),
	})

	if len(frames) != 1 {
		t.Fatalf("expected single frame, got %d", len(frames))
	}
	if frames[0].TotalOrders != 10 {
		t.Fatalf("expected total 10, got %d", frames[0].TotalOrders)
	}
	if len(frames[0].Orders) != 1 || frames[0].Orders[0].OrderCount != 10 {
		t.Fatalf("expected one merged location with 10 orders, got %+v", frames[0].Orders)
	}
}

func TestFoldSkipsMalformedDates(t *testing.T) {
	var buf bytes.Buffer
	agg := NewFrameAggregator(testLogger(&buf), nil)

	frames := agg.Fold(context.Background(), "", []insight.DayBucket{
		bucket(2024, 2, 30, 99, "990", dhakaCoord),
		bucket(2024, 13, 1, 99, "990", dhakaCoord),
		bucket(2024, 2, 29, 2, "20", dhakaCoord),
	})

	if len(frames) != 1 {
		t.Fatalf("expected only the leap-day frame, got %d", len(frames))
	}
	if frames[0].Date != "2024-02-29" || frames[0].TotalOrders != 2 {
		t.Fatalf("unexpected surviving frame %+v", frames[0])
	}
	if !strings.Contains(buf.String(), "malformed date") {
		t.Fatalf("expected warning log, got %q", buf.String())
	}
}

func TestFoldEmptyInput(t *testing.T) {
	agg := NewFrameAggregator(testLogger(&bytes.Buffer{}), nil)

	frames := agg.Fold(context.Background(), "", nil)
	if frames == nil || len(frames) != 0 {
		t.Fatalf("expected empty frame slice, got %v", frames)
	}
}

func TestFoldFramesDoNotShareState(t *testing.T) {
	agg := NewFrameAggregator(testLogger(&bytes.Buffer{}), nil)

	frames := agg.Fold(context.Background(), "", []insight.DayBucket{
		bucket(2024, 1, 1, 5, "50", dhakaCoord),
		bucket(2024, 1, 2, 3, "30", dhakaCoord),
	})

	frames[0].Orders[0].OrderCount = 9999
	if frames[1].Orders[0].OrderCount != 8 {
		t.Fatalf("mutating one frame leaked into another: %+v", frames[1].Orders)
	}
}
