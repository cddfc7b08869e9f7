package insights

import (
	"math"

	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
)

// PredictionAggregates summarizes a prediction list for the dashboard header.
type PredictionAggregates struct {
	AverageGrowthRate float64 `json:"averageGrowthRate"`
	AverageConfidence float64 `json:"averageConfidence"`
	RiskScore         float64 `json:"riskScore"`
}

// Aggregate computes the mean growth rate, mean confidence and risk score.
// The risk score weighs the magnitude of each forecast by how unsure the
// model is about it: mean((1 - confidence) * |growthRate|). Empty input
// yields the zero value.
func Aggregate(predictions []insight.GrowthPrediction) PredictionAggregates {
	if len(predictions) == 0 {
		return PredictionAggregates{}
	}

	var rateSum, confidenceSum, riskSum float64
	for _, p := range predictions {
		rateSum += p.GrowthRate
		confidenceSum += p.Confidence
		riskSum += (1 - p.Confidence) * math.Abs(p.GrowthRate)
	}

	n := float64(len(predictions))
	return PredictionAggregates{
		AverageGrowthRate: rateSum / n,
		AverageConfidence: confidenceSum / n,
		RiskScore:         riskSum / n,
	}
}

// TopByConfidence keeps predictions whose confidence strictly exceeds the
// threshold, preserving input order, capped at limit. A non-positive limit
// returns an empty slice.
func TopByConfidence(predictions []insight.GrowthPrediction, threshold float64, limit int) []insight.GrowthPrediction {
	top := []insight.GrowthPrediction{}
	if limit <= 0 {
		return top
	}
	for _, p := range predictions {
		if p.Confidence > threshold {
			top = append(top, p)
			if len(top) == limit {
				break
			}
		}
	}
	return top
}
