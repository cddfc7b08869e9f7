package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/nazmulcodes/deshcart-backend/internal/growthmap"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/nazmulcodes/deshcart-backend/pkg/redis"
)

const liveDateLayout = "2006-01-02"

// Sink receives decoded order events and folds them somewhere durable.
type Sink interface {
	ApplyOrderPlaced(ctx context.Context, event OrderEvent, occurredAt time.Time) error
	ApplyOrderCanceled(ctx context.Context, event OrderEvent, occurredAt time.Time) error
}

// LiveBucketSink folds order events into the Redis day-bucket hashes the
// growth service merges on read. Every event lands twice: under the event's
// division and under the countrywide rollup.
type LiveBucketSink struct {
	store redis.BucketStore
	ttl   time.Duration
	logg  *logger.Logger
}

func NewLiveBucketSink(store redis.BucketStore, ttl time.Duration, logg *logger.Logger) (*LiveBucketSink, error) {
	if store == nil {
		return nil, errors.New("bucket store is required")
	}
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &LiveBucketSink{store: store, ttl: ttl, logg: logg}, nil
}

// ApplyOrderPlaced increments the event's coordinate in both hashes.
func (s *LiveBucketSink) ApplyOrderPlaced(ctx context.Context, event OrderEvent, occurredAt time.Time) error {
	return s.apply(ctx, event, occurredAt, 1)
}

// ApplyOrderCanceled decrements the coordinate. A bucket never goes below
// zero: an over-decrement is written back immediately.
func (s *LiveBucketSink) ApplyOrderCanceled(ctx context.Context, event OrderEvent, occurredAt time.Time) error {
	return s.apply(ctx, event, occurredAt, -1)
}

func (s *LiveBucketSink) apply(ctx context.Context, event OrderEvent, occurredAt time.Time, sign int64) error {
	dateKey := occurredAt.UTC().Format(liveDateLayout)

	keys := []string{s.store.LiveBucketKey("", dateKey)}
	if event.Division != "" {
		keys = append(keys, s.store.LiveBucketKey(event.Division, dateKey))
	}

	amount := event.Total.InexactFloat64() * float64(sign)
	ordersField := growthmap.LiveOrdersField(event.Lat, event.Lng)
	revenueField := growthmap.LiveRevenueField(event.Lat, event.Lng)

	for _, key := range keys {
		count, err := s.store.HIncrBy(ctx, key, ordersField, sign)
		if err != nil {
			return err
		}
		if count < 0 {
			if _, err := s.store.HIncrBy(ctx, key, ordersField, -count); err != nil {
				return err
			}
		}

		revenue, err := s.store.HIncrByFloat(ctx, key, revenueField, amount)
		if err != nil {
			return err
		}
		if revenue < 0 {
			if _, err := s.store.HIncrByFloat(ctx, key, revenueField, -revenue); err != nil {
				return err
			}
		}

		if err := s.store.Expire(ctx, key, s.ttl); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to set live bucket ttl")
		}
	}
	return nil
}
