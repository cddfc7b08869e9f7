package insights

import (
	"math"
	"testing"

	"github.com/nazmulcodes/deshcart-backend/pkg/enums"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prediction(division string, rate, confidence float64) insight.GrowthPrediction {
	trend := enums.TrendStable
	switch {
	case rate > 0:
		trend = enums.TrendGrowing
	case rate < 0:
		trend = enums.TrendDeclining
	}
	return insight.GrowthPrediction{
		Division:   division,
		GrowthRate: rate,
		Trend:      trend,
		Confidence: confidence,
	}
}

func TestAggregate(t *testing.T) {
	cases := []struct {
		name  string
		preds []insight.GrowthPrediction
		want  PredictionAggregates
	}{
		{
			name:  "empty input yields zero values",
			preds: nil,
			want:  PredictionAggregates{},
		},
		{
			name:  "single prediction",
			preds: []insight.GrowthPrediction{prediction("Dhaka", 0.5, 0.8)},
			want: PredictionAggregates{
				AverageGrowthRate: 0.5,
				AverageConfidence: 0.8,
				RiskScore:         0.1,
			},
		},
		{
			name: "negative growth uses magnitude for risk",
			preds: []insight.GrowthPrediction{
				prediction("Dhaka", 0.4, 0.9),
				prediction("Khulna", -0.6, 0.5),
			},
			want: PredictionAggregates{
				AverageGrowthRate: -0.1,
				AverageConfidence: 0.7,
				RiskScore:         (0.1*0.4 + 0.5*0.6) / 2,
			},
		},
		{
			name: "full confidence means zero risk",
			preds: []insight.GrowthPrediction{
				prediction("Sylhet", 2.5, 1),
				prediction("Rajshahi", -1.5, 1),
			},
			want: PredictionAggregates{
				AverageGrowthRate: 0.5,
				AverageConfidence: 1,
				RiskScore:         0,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate(tc.preds)
			assert.InDelta(t, tc.want.AverageGrowthRate, got.AverageGrowthRate, 1e-9)
			assert.InDelta(t, tc.want.AverageConfidence, got.AverageConfidence, 1e-9)
			assert.InDelta(t, tc.want.RiskScore, got.RiskScore, 1e-9)
			assert.False(t, math.IsNaN(got.RiskScore))
		})
	}
}

func TestTopByConfidence(t *testing.T) {
	preds := []insight.GrowthPrediction{
		prediction("Dhaka", 0.5, 0.9),
		prediction("Chattogram", 0.3, 0.4),
		prediction("Khulna", 0.2, 0.7),
		prediction("Sylhet", 0.1, 0.95),
	}

	top := TopByConfidence(preds, 0.5, 10)
	require.Len(t, top, 3)
	assert.Equal(t, "Dhaka", top[0].Division)
	assert.Equal(t, "Khulna", top[1].Division)
	assert.Equal(t, "Sylhet", top[2].Division)

	capped := TopByConfidence(preds, 0.5, 2)
	require.Len(t, capped, 2)
	assert.Equal(t, "Dhaka", capped[0].Division)

	// threshold is strict
	assert.Empty(t, TopByConfidence(preds, 0.95, 10))

	assert.Empty(t, TopByConfidence(preds, 0.1, 0))
	assert.Empty(t, TopByConfidence(nil, 0.1, 10))
}
