package app

import (
	"context"
	"math"
	"sort"
	"time"

	"market-sentiment/fetch"
	"market-sentiment/models"
	"market-sentiment/stats"
)

// CorrelationPeriods maps a correlation window to calendar days.
var CorrelationPeriods = map[string]int{
	"1m": 30,
	"3m": 90,
	"6m": 180,
	"1y": 365,
	"2y": 730,
}

// minCorrelationPoints is the fewest aligned returns worth reporting.
const minCorrelationPoints = 3

// Correlation correlates each symbol's daily returns with the changes of
// every correlation indicator over period. Price histories and macro series
// are fetched concurrently and resolve independently.
func (a *App) Correlation(ctx context.Context, symbols []string, period string) (*models.CorrelationResponse, Resolution) {
	days := correlationDays(period)
	since := a.now().AddDate(0, 0, -days)

	histories, series := fetch.Pair(ctx,
		func(ctx context.Context) ([]fetch.Result[[]models.PricePoint], error) {
			return a.histories(ctx, symbols, since, days), nil
		},
		func(ctx context.Context) ([]fetch.Result[[]models.Observation], error) {
			return a.correlationSeries(ctx, since), nil
		},
	)

	var parts []Resolution
	if !histories.OK() {
		histories.Value = make([]fetch.Result[[]models.PricePoint], len(symbols))
		for i, sym := range symbols {
			histories.Value[i] = fetch.SyntheticResult(a.mock.PriceHistory(sym, days), fetch.ReasonInternalError, histories.Err)
		}
		parts = append(parts, a.panicked("price history", histories.Err))
	}
	if !series.OK() {
		series.Value = make([]fetch.Result[[]models.Observation], len(models.CorrelationIndicators))
		for i, key := range models.CorrelationIndicators {
			series.Value[i] = fetch.SyntheticResult(a.mock.MacroSeries(models.MacroIndicators[key], since), fetch.ReasonInternalError, series.Err)
		}
		parts = append(parts, a.panicked("macro series", series.Err))
	}

	prices := make([][]models.PricePoint, len(symbols))
	for i, h := range histories.Value {
		prices[i] = h.Value
		parts = append(parts, resultResolution(h))
	}
	macro := make([][]models.Observation, len(series.Value))
	for i, s := range series.Value {
		macro[i] = s.Value
		parts = append(parts, resultResolution(s))
	}

	return buildCorrelation(symbols, prices, macro), resolutionOf(parts...)
}

// MockCorrelation builds a fully synthetic correlation payload.
func (a *App) MockCorrelation(symbols []string, period string) *models.CorrelationResponse {
	days := correlationDays(period)
	since := a.now().AddDate(0, 0, -days)

	prices := make([][]models.PricePoint, len(symbols))
	for i, sym := range symbols {
		prices[i] = a.mock.PriceHistory(sym, days)
	}
	macro := make([][]models.Observation, len(models.CorrelationIndicators))
	for i, key := range models.CorrelationIndicators {
		macro[i] = a.mock.MacroSeries(models.MacroIndicators[key], since)
	}
	return buildCorrelation(symbols, prices, macro)
}

func correlationDays(period string) int {
	if d, ok := CorrelationPeriods[period]; ok {
		return d
	}
	return CorrelationPeriods["3m"]
}

func (a *App) histories(ctx context.Context, symbols []string, since time.Time, days int) []fetch.Result[[]models.PricePoint] {
	fns := make([]func(context.Context) (fetch.Result[[]models.PricePoint], error), len(symbols))
	for i, sym := range symbols {
		fns[i] = func(ctx context.Context) (fetch.Result[[]models.PricePoint], error) {
			return a.history(ctx, sym, since, days), nil
		}
	}

	out := make([]fetch.Result[[]models.PricePoint], len(symbols))
	for i, o := range fetch.Settle(ctx, a.cfg.Server.SymbolConcurrency, fns...) {
		sym := symbols[i]
		out[i] = settled(o, func() []models.PricePoint { return a.mock.PriceHistory(sym, days) })
	}
	return out
}

func (a *App) history(ctx context.Context, symbol string, since time.Time, days int) fetch.Result[[]models.PricePoint] {
	providers := make([]fetch.Provider[[]models.PricePoint], 0, len(a.providers.History))
	for _, p := range a.providers.History {
		providers = append(providers, fetch.Provider[[]models.PricePoint]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) ([]models.PricePoint, error) {
				return p.Source.GetDailyCloses(ctx, symbol, since)
			},
		})
	}

	return fetch.Chain[[]models.PricePoint]{
		Dataset:   "price_history",
		Timeout:   a.cfg.Timeouts.History,
		Providers: providers,
		Accept:    nonEmpty[models.PricePoint],
		Fallback:  func() []models.PricePoint { return a.mock.PriceHistory(symbol, days) },
	}.Run(ctx)
}

func (a *App) correlationSeries(ctx context.Context, since time.Time) []fetch.Result[[]models.Observation] {
	keys := models.CorrelationIndicators
	fns := make([]func(context.Context) (fetch.Result[[]models.Observation], error), len(keys))
	for i, key := range keys {
		fns[i] = func(ctx context.Context) (fetch.Result[[]models.Observation], error) {
			return a.series(ctx, models.MacroIndicators[key], since), nil
		}
	}

	out := make([]fetch.Result[[]models.Observation], len(keys))
	for i, o := range fetch.Settle(ctx, 0, fns...) {
		ind := models.MacroIndicators[keys[i]]
		out[i] = settled(o, func() []models.Observation { return a.mock.MacroSeries(ind, since) })
	}
	return out
}

// buildCorrelation pairs every symbol with every correlation indicator, in
// request order then indicator order.
func buildCorrelation(symbols []string, prices [][]models.PricePoint, macro [][]models.Observation) *models.CorrelationResponse {
	data := make([]models.Correlation, 0, len(symbols)*len(macro))
	for i, sym := range symbols {
		for j, key := range models.CorrelationIndicators {
			stock, levels := alignSeries(prices[i], macro[j])
			stockReturns := stats.Returns(stock)
			macroChanges := stats.Returns(levels)

			r := 0.0
			if len(stockReturns) >= minCorrelationPoints {
				r = stats.Round(stats.Pearson(stockReturns, macroChanges), 3)
			}
			data = append(data, models.Correlation{
				Stock:       sym,
				Macro:       key,
				MacroName:   models.MacroIndicators[key].Name,
				Correlation: r,
				Strength:    stats.CorrelationStrength(r),
				DataPoints:  len(stockReturns),
			})
		}
	}

	return &models.CorrelationResponse{Data: data, Summary: correlationSummary(data)}
}

// alignSeries joins each close with the latest macro observation on or
// before its date. Closes dated before the first observation are dropped.
func alignSeries(closes []models.PricePoint, obs []models.Observation) (stock, macro []float64) {
	sorted := make([]models.Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	j := -1
	for _, c := range closes {
		for j+1 < len(sorted) && !sorted[j+1].Date.After(c.Date) {
			j++
		}
		if j < 0 {
			continue
		}
		stock = append(stock, c.Close)
		macro = append(macro, sorted[j].Value)
	}
	return stock, macro
}

func correlationSummary(data []models.Correlation) models.CorrelationSummary {
	s := models.CorrelationSummary{Pairs: len(data)}
	if len(data) == 0 {
		return s
	}

	abs := make([]float64, len(data))
	for i := range data {
		c := &data[i]
		abs[i] = math.Abs(c.Correlation)
		if c.Correlation > 0 && (s.StrongestPositive == nil || c.Correlation > s.StrongestPositive.Correlation) {
			s.StrongestPositive = c
		}
		if c.Correlation < 0 && (s.StrongestNegative == nil || c.Correlation < s.StrongestNegative.Correlation) {
			s.StrongestNegative = c
		}
	}
	s.AverageAbsolute = stats.Round(stats.Mean(abs), 3)
	return s
}
