package cron

import (
	"context"
	"fmt"

	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
)

type cacheWarmer interface {
	Warm(ctx context.Context, timeframeMonths int, division string) error
}

// WarmCacheJobParams configure the analytics cache warmer.
type WarmCacheJobParams struct {
	Logger          *logger.Logger
	Warmer          cacheWarmer
	TimeframeMonths int
	// Divisions to warm alongside the countrywide payload.
	Divisions []string
}

// NewWarmCacheJob pre-fetches the time-series payload for the countrywide
// view and each configured division.
func NewWarmCacheJob(params WarmCacheJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Warmer == nil {
		return nil, fmt.Errorf("warmer required")
	}
	timeframe := params.TimeframeMonths
	if timeframe <= 0 {
		timeframe = 6
	}
	return &warmCacheJob{
		logg:      params.Logger,
		warmer:    params.Warmer,
		timeframe: timeframe,
		divisions: params.Divisions,
	}, nil
}

type warmCacheJob struct {
	logg      *logger.Logger
	warmer    cacheWarmer
	timeframe int
	divisions []string
}

func (j *warmCacheJob) Name() string { return "warm-analytics-cache" }

// Run warms every target, continuing past individual failures so one broken
// division does not starve the rest.
func (j *warmCacheJob) Run(ctx context.Context) error {
	targets := append([]string{""}, j.divisions...)

	var failed int
	for _, division := range targets {
		divCtx := j.logg.WithDivision(ctx, divisionLabel(division))
		if err := j.warmer.Warm(divCtx, j.timeframe, division); err != nil {
			j.logg.Error(divCtx, "cache warm failed", err)
			failed++
			continue
		}
		j.logg.Info(divCtx, "cache warmed")
	}

	if failed == len(targets) {
		return fmt.Errorf("all %d warm targets failed", failed)
	}
	return nil
}

func divisionLabel(division string) string {
	if division == "" {
		return "all"
	}
	return division
}
