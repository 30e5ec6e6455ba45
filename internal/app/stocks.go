package app

import (
	"context"
	"errors"
	"fmt"

	"market-sentiment/fetch"
	"market-sentiment/models"
	"market-sentiment/services"
	"market-sentiment/stats"
)

// technicalsHistoryDays covers the 50-day SMA in trading days.
const technicalsHistoryDays = 120

// Stocks returns a snapshot per symbol. Symbols resolve independently: one
// symbol's failure never affects another.
func (a *App) Stocks(ctx context.Context, symbols []string, technicals bool) (*models.StocksResponse, Resolution) {
	fns := make([]func(context.Context) (symbolSnapshot, error), len(symbols))
	for i, sym := range symbols {
		fns[i] = func(ctx context.Context) (symbolSnapshot, error) {
			return a.snapshot(ctx, sym, technicals), nil
		}
	}
	outcomes := fetch.Settle(ctx, a.cfg.Server.SymbolConcurrency, fns...)

	snapshots := make([]models.StockSnapshot, len(symbols))
	parts := make([]Resolution, len(symbols))
	for i, o := range outcomes {
		if !o.OK() {
			snapshots[i] = a.mockSnapshot(symbols[i], technicals)
			snapshots[i].Error = string(fetch.ReasonInternalError)
			parts[i] = a.panicked("stocks "+symbols[i], o.Err)
			continue
		}
		snapshots[i] = o.Value.snapshot
		parts[i] = o.Value.resolution
	}

	return &models.StocksResponse{
		Data:    snapshots,
		Summary: summarize(snapshots),
	}, resolutionOf(parts...)
}

// MockStocks builds a fully synthetic stocks payload.
func (a *App) MockStocks(symbols []string, technicals bool) *models.StocksResponse {
	snapshots := make([]models.StockSnapshot, len(symbols))
	for i, sym := range symbols {
		snapshots[i] = a.mockSnapshot(sym, technicals)
	}
	return &models.StocksResponse{Data: snapshots, Summary: summarize(snapshots)}
}

type symbolSnapshot struct {
	snapshot   models.StockSnapshot
	resolution Resolution
}

// snapshot resolves one symbol. The symbol is live when its quote is live
// and, if requested, its technicals are live.
func (a *App) snapshot(ctx context.Context, symbol string, withTechnicals bool) symbolSnapshot {
	type market struct {
		quote      fetch.Result[models.Quote]
		technicals *fetch.Result[models.Technicals]
	}

	m, profile := fetch.Pair(ctx,
		func(ctx context.Context) (market, error) {
			if !withTechnicals {
				return market{quote: a.quote(ctx, symbol)}, nil
			}
			q, t := fetch.Pair(ctx,
				func(ctx context.Context) (fetch.Result[models.Quote], error) {
					return a.quote(ctx, symbol), nil
				},
				func(ctx context.Context) (fetch.Result[models.Technicals], error) {
					return a.technicals(ctx, symbol), nil
				},
			)
			tech := settled(t, func() models.Technicals { return a.mock.Technicals(symbol) })
			return market{
				quote:      settled(q, func() models.Quote { return a.mock.Quote(symbol) }),
				technicals: &tech,
			}, nil
		},
		func(ctx context.Context) (fetch.Result[*models.CompanyProfile], error) {
			return a.profile(ctx, symbol), nil
		},
	)

	if !m.OK() {
		m.Value = market{quote: fetch.SyntheticResult(a.mock.Quote(symbol), fetch.ReasonInternalError, m.Err)}
		if withTechnicals {
			tech := fetch.SyntheticResult(a.mock.Technicals(symbol), fetch.ReasonInternalError, m.Err)
			m.Value.technicals = &tech
		}
	}

	parts := []Resolution{resultResolution(m.Value.quote)}
	snap := models.StockSnapshot{
		Symbol: symbol,
		Quote:  m.Value.quote.Value,
		Source: m.Value.quote.Source,
	}
	if t := m.Value.technicals; t != nil {
		tech := t.Value
		snap.Technicals = &tech
		parts = append(parts, resultResolution(*t))
	}

	res := resolutionOf(parts...)
	if profile.OK() && profile.Value.Live() {
		snap.Profile = profile.Value.Value
		res.Sources = uniqueSources(append(res.Sources, profile.Value.Source))
	}

	snap.DataQuality = res.Quality
	snap.Error = string(res.Reason)
	return symbolSnapshot{snapshot: snap, resolution: res}
}

func (a *App) mockSnapshot(symbol string, withTechnicals bool) models.StockSnapshot {
	snap := models.StockSnapshot{
		Symbol:      symbol,
		Quote:       a.mock.Quote(symbol),
		Source:      fetch.SourceSynthetic,
		DataQuality: models.QualityMock,
	}
	if withTechnicals {
		tech := a.mock.Technicals(symbol)
		snap.Technicals = &tech
	}
	return snap
}

func (a *App) quote(ctx context.Context, symbol string) fetch.Result[models.Quote] {
	providers := make([]fetch.Provider[models.Quote], 0, len(a.providers.Quotes))
	for _, p := range a.providers.Quotes {
		providers = append(providers, fetch.Provider[models.Quote]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) (models.Quote, error) {
				q, err := p.Source.GetQuote(ctx, symbol)
				if err != nil {
					return models.Quote{}, err
				}
				return *q, nil
			},
		})
	}

	return fetch.Chain[models.Quote]{
		Dataset:   "quote",
		Timeout:   a.cfg.Timeouts.Quote,
		Providers: providers,
		Accept: func(q models.Quote) error {
			if !q.Price.IsPositive() {
				return errors.New("non-positive price")
			}
			return nil
		},
		Fallback: func() models.Quote { return a.mock.Quote(symbol) },
	}.Run(ctx)
}

// profile is optional enrichment: it has no synthetic fallback.
func (a *App) profile(ctx context.Context, symbol string) fetch.Result[*models.CompanyProfile] {
	providers := make([]fetch.Provider[*models.CompanyProfile], 0, len(a.providers.Profiles))
	for _, p := range a.providers.Profiles {
		providers = append(providers, fetch.Provider[*models.CompanyProfile]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) (*models.CompanyProfile, error) {
				return p.Source.GetCompanyProfile(ctx, symbol)
			},
		})
	}

	return fetch.Chain[*models.CompanyProfile]{
		Dataset:   "profile",
		Timeout:   a.cfg.Timeouts.Profile,
		Providers: providers,
		Accept: func(p *models.CompanyProfile) error {
			if p == nil || p.Name == "" {
				return errors.New("empty profile")
			}
			return nil
		},
	}.Run(ctx)
}

// technicals prefers upstream indicators and falls back to computing them
// from daily closes.
func (a *App) technicals(ctx context.Context, symbol string) fetch.Result[models.Technicals] {
	var providers []fetch.Provider[models.Technicals]
	for _, p := range a.providers.Indicators {
		providers = append(providers, fetch.Provider[models.Technicals]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) (models.Technicals, error) {
				return upstreamTechnicals(ctx, p, symbol)
			},
		})
	}
	for _, p := range a.providers.History {
		providers = append(providers, fetch.Provider[models.Technicals]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) (models.Technicals, error) {
				since := a.now().AddDate(0, 0, -technicalsHistoryDays*7/5)
				closes, err := p.Source.GetDailyCloses(ctx, symbol, since)
				if err != nil {
					return models.Technicals{}, err
				}
				return computeTechnicals(closes, p.Name)
			},
		})
	}

	return fetch.Chain[models.Technicals]{
		Dataset:   "technicals",
		Timeout:   a.cfg.Timeouts.Technicals,
		Providers: providers,
		Fallback:  func() models.Technicals { return a.mock.Technicals(symbol) },
	}.Run(ctx)
}

// upstreamTechnicals fetches RSI and MACD concurrently; both must succeed.
func upstreamTechnicals(ctx context.Context, p Named[services.IndicatorSource], symbol string) (models.Technicals, error) {
	rsi, macd := fetch.Pair(ctx,
		func(ctx context.Context) (float64, error) { return p.Source.GetRSI(ctx, symbol) },
		func(ctx context.Context) (services.MACDValues, error) { return p.Source.GetMACD(ctx, symbol) },
	)
	if err := errors.Join(rsi.Err, macd.Err); err != nil {
		return models.Technicals{}, err
	}

	return models.Technicals{
		RSI:           stats.Round(rsi.Value, 2),
		MACD:          stats.Round(macd.Value.MACD, 3),
		MACDSignal:    stats.Round(macd.Value.Signal, 3),
		MACDHistogram: stats.Round(macd.Value.Histogram, 3),
		Signal:        models.RSISignal(rsi.Value),
		Source:        p.Name,
	}, nil
}

// computeTechnicals derives indicators from daily closes, oldest first.
func computeTechnicals(closes []models.PricePoint, source string) (models.Technicals, error) {
	if len(closes) < stats.MinMACDPoints {
		return models.Technicals{}, fmt.Errorf("%w: %d closes, need %d", fetch.ErrRejected, len(closes), stats.MinMACDPoints)
	}

	prices := make([]float64, len(closes))
	for i, c := range closes {
		prices[i] = c.Close
	}
	rsi := stats.RSI(prices, stats.RSIPeriod)
	macd := stats.MACD(prices)

	return models.Technicals{
		RSI:           stats.Round(rsi, 2),
		MACD:          stats.Round(macd.MACD, 3),
		MACDSignal:    stats.Round(macd.Signal, 3),
		MACDHistogram: stats.Round(macd.Histogram, 3),
		SMA20:         stats.Round(stats.SMA(prices, 20), 2),
		SMA50:         stats.Round(stats.SMA(prices, 50), 2),
		Signal:        models.RSISignal(rsi),
		Source:        source + "_computed",
	}, nil
}

func summarize(snapshots []models.StockSnapshot) models.MarketSummary {
	var s models.MarketSummary
	changes := make([]float64, 0, len(snapshots))
	for _, snap := range snapshots {
		c := snap.Quote.ChangePercent.InexactFloat64()
		changes = append(changes, c)
		switch {
		case c > 0:
			s.Advancers++
		case c < 0:
			s.Decliners++
		default:
			s.Unchanged++
		}
	}
	s.AverageChangePercent = stats.Round(stats.Mean(changes), 2)
	return s
}
