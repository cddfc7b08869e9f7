package insights

import (
	"context"

	pkgerrors "github.com/nazmulcodes/deshcart-backend/pkg/errors"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
)

// Analytics is the slice of the insight client this service consumes.
type Analytics interface {
	CustomerSegments(ctx context.Context, division string) (insight.SegmentsPayload, error)
	GrowthPredictions(ctx context.Context, timeframeMonths int, division string) ([]insight.GrowthPrediction, error)
}

// SegmentsResult carries the raw segment payload plus derived shares.
type SegmentsResult struct {
	Segments  insight.SegmentsPayload `json:"segments"`
	Breakdown SegmentBreakdown        `json:"breakdown"`
}

// PredictionsResult carries the forecasts plus derived aggregates.
type PredictionsResult struct {
	Predictions []insight.GrowthPrediction `json:"predictions"`
	Aggregates  PredictionAggregates       `json:"aggregates"`
}

// Service fetches segment and prediction payloads and decorates them with
// derived statistics.
type Service struct {
	analytics        Analytics
	logg             *logger.Logger
	defaultTimeframe int
}

func NewService(analytics Analytics, logg *logger.Logger, defaultTimeframe int) *Service {
	if defaultTimeframe <= 0 {
		defaultTimeframe = 6
	}
	return &Service{
		analytics:        analytics,
		logg:             logg,
		defaultTimeframe: defaultTimeframe,
	}
}

// Segments returns the customer classification with per-segment shares.
func (s *Service) Segments(ctx context.Context, division string) (*SegmentsResult, error) {
	payload, err := s.analytics.CustomerSegments(ctx, division)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch customer segments")
	}
	return &SegmentsResult{
		Segments:  payload,
		Breakdown: SegmentShares(payload),
	}, nil
}

// Predictions returns growth forecasts with aggregates. When minConfidence
// is positive the prediction list is filtered to confident entries, capped
// at limit; the aggregates always cover the unfiltered payload.
func (s *Service) Predictions(ctx context.Context, timeframeMonths int, division string, minConfidence float64, limit int) (*PredictionsResult, error) {
	if timeframeMonths <= 0 {
		timeframeMonths = s.defaultTimeframe
	}

	predictions, err := s.analytics.GrowthPredictions(ctx, timeframeMonths, division)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch growth predictions")
	}

	aggregates := Aggregate(predictions)

	if minConfidence > 0 || limit > 0 {
		if limit <= 0 {
			limit = len(predictions)
		}
		predictions = TopByConfidence(predictions, minConfidence, limit)
	}

	return &PredictionsResult{
		Predictions: predictions,
		Aggregates:  aggregates,
	}, nil
}
