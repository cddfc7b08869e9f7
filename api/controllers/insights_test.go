package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nazmulcodes/deshcart-backend/internal/insights"
	"github.com/nazmulcodes/deshcart-backend/pkg/enums"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
)

type stubInsightAnalytics struct {
	segmentsFn    func(ctx context.Context, division string) (insight.SegmentsPayload, error)
	predictionsFn func(ctx context.Context, timeframeMonths int, division string) ([]insight.GrowthPrediction, error)
}

func (s *stubInsightAnalytics) CustomerSegments(ctx context.Context, division string) (insight.SegmentsPayload, error) {
	if s.segmentsFn != nil {
		return s.segmentsFn(ctx, division)
	}
	return insight.SegmentsPayload{}, nil
}

func (s *stubInsightAnalytics) GrowthPredictions(ctx context.Context, timeframeMonths int, division string) ([]insight.GrowthPrediction, error) {
	if s.predictionsFn != nil {
		return s.predictionsFn(ctx, timeframeMonths, division)
	}
	return nil, nil
}

func TestInsightsSegmentsSuccess(t *testing.T) {
	var gotDivision string
	analytics := &stubInsightAnalytics{
		segmentsFn: func(ctx context.Context, division string) (insight.SegmentsPayload, error) {
			gotDivision = division
			return insight.SegmentsPayload{
				enums.SegmentHighValueFrequent: {{ID: "c1"}, {ID: "c2"}},
				enums.SegmentNewCustomers:      {{ID: "c3"}},
			}, nil
		},
	}
	svc := insights.NewService(analytics, testLogger(), 6)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/insights/segments?division=Sylhet", nil)
	resp := httptest.NewRecorder()
	InsightsSegments(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotDivision != "Sylhet" {
		t.Fatalf("unexpected division %q", gotDivision)
	}

	var envelope struct {
		Data struct {
			Breakdown insights.SegmentBreakdown `json:"breakdown"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Breakdown.Total != 3 {
		t.Fatalf("expected population 3 got %d", envelope.Data.Breakdown.Total)
	}
}

func TestInsightsPredictionsForwardsFilters(t *testing.T) {
	var gotTimeframe int
	analytics := &stubInsightAnalytics{
		predictionsFn: func(ctx context.Context, timeframeMonths int, division string) ([]insight.GrowthPrediction, error) {
			gotTimeframe = timeframeMonths
			return []insight.GrowthPrediction{
				{Division: "Dhaka", GrowthRate: 0.4, Confidence: 0.9, Trend: enums.TrendGrowing},
				{Division: "Khulna", GrowthRate: 0.1, Confidence: 0.3, Trend: enums.TrendStable},
			}, nil
		},
	}
	svc := insights.NewService(analytics, testLogger(), 6)
	cfg := growthTestConfig()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/insights/predictions?timeframe=12&min_confidence=0.5", nil)
	resp := httptest.NewRecorder()
	InsightsPredictions(svc, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotTimeframe != 12 {
		t.Fatalf("unexpected timeframe %d", gotTimeframe)
	}

	var envelope struct {
		Data insights.PredictionsResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Predictions) != 1 {
		t.Fatalf("expected confident entries only, got %d", len(envelope.Data.Predictions))
	}
	if envelope.Data.Predictions[0].Division != "Dhaka" {
		t.Fatalf("unexpected prediction %q", envelope.Data.Predictions[0].Division)
	}
	if envelope.Data.Aggregates.AverageConfidence != 0.6 {
		t.Fatalf("aggregates should cover the unfiltered payload, got %f", envelope.Data.Aggregates.AverageConfidence)
	}
}

func TestInsightsPredictionsRejectsBadConfidence(t *testing.T) {
	svc := insights.NewService(&stubInsightAnalytics{}, testLogger(), 6)
	cfg := growthTestConfig()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/insights/predictions?min_confidence=1.5", nil)
	resp := httptest.NewRecorder()
	InsightsPredictions(svc, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
