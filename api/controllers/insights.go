package controllers

import (
	"net/http"

	"github.com/nazmulcodes/deshcart-backend/api/responses"
	"github.com/nazmulcodes/deshcart-backend/api/validators"
	"github.com/nazmulcodes/deshcart-backend/internal/insights"
	"github.com/nazmulcodes/deshcart-backend/pkg/config"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
)

// InsightsSegments returns the customer classification with shares.
func InsightsSegments(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		division, err := validators.ParseDivision(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if division != "" && logg != nil {
			ctx = logg.WithDivision(ctx, division)
		}

		result, err := svc.Segments(ctx, division)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// InsightsPredictions returns growth forecasts with aggregates, optionally
// filtered to the most confident entries.
func InsightsPredictions(svc *insights.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		timeframe, err := validators.ParseQueryInt(r, "timeframe", cfg.Growth.DefaultTimeframe, 1, maxTimeframeMonths)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		division, err := validators.ParseDivision(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		minConfidence, err := validators.ParseQueryFloat(r, "min_confidence", 0, 0, 1)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Predictions(ctx, timeframe, division, minConfidence, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
