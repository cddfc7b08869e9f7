package growthmap

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/config"
	pkgerrors "github.com/nazmulcodes/deshcart-backend/pkg/errors"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/nazmulcodes/deshcart-backend/pkg/redis"
)

// Analytics is the slice of the insight client the growth engine consumes.
type Analytics interface {
	TimeSeries(ctx context.Context, timeframeMonths int, division string) ([]insight.DayBucket, error)
}

// Service orchestrates fetching day buckets from the analytics service,
// caching the raw payloads in Redis, merging today's live buckets from the
// ingest worker and folding everything into animation frames.
type Service struct {
	analytics  Analytics
	cache      redis.CacheStore
	live       redis.BucketStore
	aggregator *FrameAggregator
	store      *EventBucketStore
	logg       *logger.Logger
	cfg        config.GrowthConfig
	now        func() time.Time
}

func NewService(
	analytics Analytics,
	cache redis.CacheStore,
	live redis.BucketStore,
	aggregator *FrameAggregator,
	store *EventBucketStore,
	logg *logger.Logger,
	cfg config.GrowthConfig,
) *Service {
	return &Service{
		analytics:  analytics,
		cache:      cache,
		live:       live,
		aggregator: aggregator,
		store:      store,
		logg:       logg,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Frames returns the full animation for the filter. A failed fetch surfaces
// the error without touching previously loaded data.
func (s *Service) Frames(ctx context.Context, timeframeMonths int, division string) ([]AnimationFrame, error) {
	buckets, err := s.Buckets(ctx, timeframeMonths, division)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Fold(ctx, division, buckets), nil
}

// Buckets returns the day buckets for the filter, served from cache when
// fresh. Today's live buckets from the ingest worker are appended after the
// cached payload so the map moves between analytics syncs.
func (s *Service) Buckets(ctx context.Context, timeframeMonths int, division string) ([]insight.DayBucket, error) {
	if timeframeMonths <= 0 {
		timeframeMonths = s.cfg.DefaultTimeframe
	}

	buckets, err := s.fetchWithCache(ctx, timeframeMonths, division)
	if err != nil {
		return nil, err
	}

	if s.cfg.MergeLiveBuckets && s.live != nil {
		buckets = append(buckets, s.liveBuckets(ctx, division)...)
	}
	return buckets, nil
}

// Warm fetches a fresh payload and overwrites the cache entry. Used by the
// refresher so dashboard requests rarely pay the upstream latency.
func (s *Service) Warm(ctx context.Context, timeframeMonths int, division string) error {
	if timeframeMonths <= 0 {
		timeframeMonths = s.cfg.DefaultTimeframe
	}
	_, err := s.fetchAndCache(ctx, timeframeMonths, division)
	return err
}

func (s *Service) fetchWithCache(ctx context.Context, timeframeMonths int, division string) ([]insight.DayBucket, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.cacheKey(timeframeMonths, division))
		if err == nil {
			var buckets []insight.DayBucket
			if uerr := json.Unmarshal([]byte(cached), &buckets); uerr == nil {
				return buckets, nil
			}
			s.logg.Warn(ctx, "discarding undecodable cached time series")
		} else if !redis.IsNil(err) {
			s.logg.Warn(ctx, "time series cache read failed")
		}
	}

	return s.fetchAndCache(ctx, timeframeMonths, division)
}

func (s *Service) fetchAndCache(ctx context.Context, timeframeMonths int, division string) ([]insight.DayBucket, error) {
	token := s.store.Begin()

	buckets, err := s.analytics.TimeSeries(ctx, timeframeMonths, division)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch time series")
	}

	s.store.Commit(token, timeframeMonths, division, buckets)

	if s.cache != nil {
		payload, merr := json.Marshal(buckets)
		if merr == nil {
			if serr := s.cache.Set(ctx, s.cacheKey(timeframeMonths, division), payload, s.cfg.CacheTTL); serr != nil {
				s.logg.Warn(ctx, "time series cache write failed")
			}
		}
	}
	return buckets, nil
}

func (s *Service) liveBuckets(ctx context.Context, division string) []insight.DayBucket {
	today := s.now().UTC()
	key := s.live.LiveBucketKey(division, today.Format(dateKeyLayout))

	fields, err := s.live.HGetAll(ctx, key)
	if err != nil {
		s.logg.Warn(ctx, "live bucket read failed")
		return nil
	}
	if len(fields) == 0 {
		return nil
	}
	return BucketsFromLiveHash(today, division, fields)
}

func (s *Service) cacheKey(timeframeMonths int, division string) string {
	if division == "" {
		division = "all"
	}
	return s.cache.CacheKey("timeseries", strconv.Itoa(timeframeMonths), division)
}
