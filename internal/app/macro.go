package app

import (
	"context"
	"time"

	"market-sentiment/fetch"
	"market-sentiment/models"
	"market-sentiment/stats"
	"market-sentiment/valuation"
)

// Lookback windows accepted by the macro and valuation endpoints.
var (
	MacroPeriods = []string{"1m", "3m", "6m", "1y", "2y", "5y"}
	CAPEPeriods  = []string{"10y", "20y", "50y", "all"}
)

// capeEpoch is the first month of the Shiller data set.
var capeEpoch = time.Date(1871, time.January, 1, 0, 0, 0, 0, time.UTC)

// periodSince returns the start of a lookback window ending at now.
func periodSince(now time.Time, period string) time.Time {
	switch period {
	case "1m":
		return now.AddDate(0, -1, 0)
	case "3m":
		return now.AddDate(0, -3, 0)
	case "6m":
		return now.AddDate(0, -6, 0)
	case "2y":
		return now.AddDate(-2, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	case "10y":
		return now.AddDate(-10, 0, 0)
	case "20y":
		return now.AddDate(-20, 0, 0)
	case "50y":
		return now.AddDate(-50, 0, 0)
	case "all":
		return capeEpoch
	}
	return now.AddDate(-1, 0, 0)
}

// Macro returns the series for metric over period with summary statistics.
// metric must be a key of models.MacroIndicators.
func (a *App) Macro(ctx context.Context, metric, period string) (*models.MacroResponse, Resolution) {
	ind := models.MacroIndicators[metric]
	res := a.series(ctx, ind, periodSince(a.now(), period))
	return buildMacro(ind, res.Value), resultResolution(res)
}

// MockMacro builds a fully synthetic macro payload.
func (a *App) MockMacro(metric, period string) *models.MacroResponse {
	ind := models.MacroIndicators[metric]
	return buildMacro(ind, a.mock.MacroSeries(ind, periodSince(a.now(), period)))
}

func (a *App) series(ctx context.Context, ind models.MacroIndicator, since time.Time) fetch.Result[[]models.Observation] {
	providers := make([]fetch.Provider[[]models.Observation], 0, len(a.providers.Macro))
	for _, p := range a.providers.Macro {
		providers = append(providers, fetch.Provider[[]models.Observation]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) ([]models.Observation, error) {
				return p.Source.GetIndicator(ctx, ind, since)
			},
		})
	}

	return fetch.Chain[[]models.Observation]{
		Dataset:   "macro_" + ind.Key,
		Timeout:   a.cfg.Timeouts.Macro,
		Providers: providers,
		Accept:    nonEmpty[models.Observation],
		Fallback:  func() []models.Observation { return a.mock.MacroSeries(ind, since) },
	}.Run(ctx)
}

func buildMacro(ind models.MacroIndicator, obs []models.Observation) *models.MacroResponse {
	if obs == nil {
		obs = []models.Observation{}
	}
	resp := &models.MacroResponse{Indicator: ind, Data: obs}
	if len(obs) == 0 {
		return resp
	}

	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.Value
	}
	latest := obs[len(obs)-1]

	resp.Latest = &latest
	resp.Change = stats.Round(latest.Value-obs[0].Value, 2)
	resp.Statistics = models.SeriesStatistics{
		Mean:              stats.Round(stats.Mean(values), 2),
		Median:            stats.Round(stats.Median(values), 2),
		StandardDeviation: stats.Round(stats.StdDev(values), 2),
		Min:               stats.Round(stats.Min(values), 2),
		Max:               stats.Round(stats.Max(values), 2),
		LatestPercentile:  stats.Round(stats.PercentileRank(latest.Value, values), 1),
	}
	return resp
}

// ShillerPE returns the current Shiller P/E placed within its history over
// period, and the return forecast it implies.
func (a *App) ShillerPE(ctx context.Context, period string) (*models.ShillerPEResponse, Resolution) {
	since := periodSince(a.now(), period)

	providers := make([]fetch.Provider[[]models.CAPEPoint], 0, len(a.providers.CAPE))
	for _, p := range a.providers.CAPE {
		providers = append(providers, fetch.Provider[[]models.CAPEPoint]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) ([]models.CAPEPoint, error) {
				return p.Source.GetCAPEHistory(ctx, since)
			},
		})
	}

	res := fetch.Chain[[]models.CAPEPoint]{
		Dataset:   "cape",
		Timeout:   a.cfg.Timeouts.CAPE,
		Providers: providers,
		Accept:    nonEmpty[models.CAPEPoint],
		Fallback:  func() []models.CAPEPoint { return a.mock.CAPEHistory(since) },
	}.Run(ctx)

	return buildShillerPE(res.Value), resultResolution(res)
}

// MockShillerPE builds a fully synthetic valuation payload.
func (a *App) MockShillerPE(period string) *models.ShillerPEResponse {
	return buildShillerPE(a.mock.CAPEHistory(periodSince(a.now(), period)))
}

func buildShillerPE(history []models.CAPEPoint) *models.ShillerPEResponse {
	if history == nil {
		history = []models.CAPEPoint{}
	}
	values := valuation.Values(history)

	current := 0.0
	if len(values) > 0 {
		current = values[len(values)-1]
	}

	return &models.ShillerPEResponse{
		Current:    current,
		Statistics: valuation.Statistics(current, values),
		Forecast:   valuation.Forecast(current),
		History:    history,
	}
}
