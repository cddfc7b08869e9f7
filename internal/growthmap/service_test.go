package growthmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/config"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type fakeAnalytics struct {
	buckets []insight.DayBucket
	err     error
	calls   int
}

func (f *fakeAnalytics) TimeSeries(ctx context.Context, timeframeMonths int, division string) ([]insight.DayBucket, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.buckets, nil
}

type fakeCache struct {
	values map[string]string
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeCache) CacheKey(parts ...string) string {
	key := "cache"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

type fakeBuckets struct {
	hashes map[string]map[string]string
}

func (f *fakeBuckets) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	return 0, errors.New("not used")
}

func (f *fakeBuckets) HIncrByFloat(ctx context.Context, key, field string, incr float64) (float64, error) {
	return 0, errors.New("not used")
}

func (f *fakeBuckets) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return f.hashes[key], nil
}

func (f *fakeBuckets) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

func (f *fakeBuckets) LiveBucketKey(division, dateKey string) string {
	if division == "" {
		division = "all"
	}
	return "live:" + division + ":" + dateKey
}

func growthConfig() config.GrowthConfig {
	return config.GrowthConfig{
		CacheTTL:         time.Minute,
		DefaultTimeframe: 6,
		MergeLiveBuckets: false,
	}
}

func newTestService(analytics Analytics, cache *fakeCache, live *fakeBuckets, cfg config.GrowthConfig) *Service {
	logg := testLogger(&bytes.Buffer{})
	svc := NewService(analytics, cache, nil, NewFrameAggregator(logg, nil), NewEventBucketStore(), logg, cfg)
	if live != nil {
		svc.live = live
	}
	return svc
}

func TestServiceFramesFromUpstream(t *testing.T) {
	analytics := &fakeAnalytics{buckets: []insight.DayBucket{
		bucket(2024, 1, 1, 5, "500", dhakaCoord),
		bucket(2024, 1, 2, 3, "300", dhakaCoord),
	}}
	cache := newFakeCache()
	svc := newTestService(analytics, cache, nil, growthConfig())

	frames, err := svc.Frames(context.Background(), 6, "Dhaka")
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(frames) != 2 || frames[1].TotalOrders != 8 {
		t.Fatalf("unexpected frames %+v", frames)
	}
	if analytics.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", analytics.calls)
	}
	if len(cache.values) != 1 {
		t.Fatalf("expected a cache write, got %v", cache.values)
	}
}

func TestServiceServesFromCache(t *testing.T) {
	buckets := []insight.DayBucket{bucket(2024, 1, 1, 4, "400", dhakaCoord)}
	payload, _ := json.Marshal(buckets)

	analytics := &fakeAnalytics{err: errors.New("upstream down")}
	cache := newFakeCache()
	cache.values["cache:timeseries:6:all"] = string(payload)

	svc := newTestService(analytics, cache, nil, growthConfig())

	frames, err := svc.Frames(context.Background(), 6, "")
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(frames) != 1 || frames[0].TotalOrders != 4 {
		t.Fatalf("unexpected frames %+v", frames)
	}
	if analytics.calls != 0 {
		t.Fatalf("cache hit should not call upstream, got %d calls", analytics.calls)
	}
}

func TestServiceFetchFailurePropagates(t *testing.T) {
	analytics := &fakeAnalytics{err: errors.New("connection refused")}
	svc := newTestService(analytics, newFakeCache(), nil, growthConfig())

	if _, err := svc.Frames(context.Background(), 6, ""); err == nil {
		t.Fatalf("expected error from failed fetch")
	}
	if _, ok := svc.store.Snapshot(); ok {
		t.Fatalf("failed fetch must not install a snapshot")
	}
}

func TestServiceDefaultTimeframe(t *testing.T) {
	analytics := &fakeAnalytics{buckets: []insight.DayBucket{bucket(2024, 1, 1, 1, "10", dhakaCoord)}}
	cache := newFakeCache()
	svc := newTestService(analytics, cache, nil, growthConfig())

	if _, err := svc.Buckets(context.Background(), 0, ""); err != nil {
		t.Fatalf("buckets: %v", err)
	}
	if _, ok := cache.values["cache:timeseries:6:all"]; !ok {
		t.Fatalf("expected default timeframe cache key, got %v", cache.values)
	}
}

func TestServiceMergesLiveBuckets(t *testing.T) {
	analytics := &fakeAnalytics{buckets: []insight.DayBucket{bucket(2024, 1, 1, 5, "500", dhakaCoord)}}
	cfg := growthConfig()
	cfg.MergeLiveBuckets = true

	today := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	live := &fakeBuckets{hashes: map[string]map[string]string{
		"live:all:2024-01-02": {
			LiveOrdersField(23.8103, 90.4125):  "3",
			LiveRevenueField(23.8103, 90.4125): "275.5",
		},
	}}

	svc := newTestService(analytics, newFakeCache(), live, cfg)
	svc.now = func() time.Time { return today }

	frames, err := svc.Frames(context.Background(), 6, "")
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected live day to add a frame, got %d", len(frames))
	}
	last := frames[len(frames)-1]
	if last.Date != "2024-01-02" || last.TotalOrders != 8 {
		t.Fatalf("unexpected merged frame %+v", last)
	}
	if !last.TotalRevenue.Equal(decimal.RequireFromString("775.5")) {
		t.Fatalf("unexpected merged revenue %s", last.TotalRevenue)
	}
}

func TestServiceWarmOverwritesCache(t *testing.T) {
	analytics := &fakeAnalytics{buckets: []insight.DayBucket{bucket(2024, 1, 1, 2, "20", dhakaCoord)}}
	cache := newFakeCache()
	cache.values["cache:timeseries:6:all"] = `[{"year":2020,"month":1,"day":1,"orderCount":1,"revenue":"1","coordinates":[]}]`

	svc := newTestService(analytics, cache, nil, growthConfig())

	if err := svc.Warm(context.Background(), 6, ""); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if analytics.calls != 1 {
		t.Fatalf("warm must hit upstream, got %d calls", analytics.calls)
	}

	var cached []insight.DayBucket
	if err := json.Unmarshal([]byte(cache.values["cache:timeseries:6:all"]), &cached); err != nil {
		t.Fatalf("decode cache: %v", err)
	}
	if len(cached) != 1 || cached[0].Year != 2024 {
		t.Fatalf("cache not refreshed: %+v", cached)
	}
}
