package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market-sentiment/models"
	"market-sentiment/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// barsClient is the subset of the Alpaca market data client used here
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaService reads historical market data from Alpaca
type AlpacaService struct {
	client
	apiKey     string
	apiSecret  string
	feed       string
	dataClient barsClient
}

// NewAlpacaService creates a new AlpacaService instance. Only the market
// data API is used.
func NewAlpacaService(apiKey, apiSecret, feed string, opts ...Option) *AlpacaService {
	s := &AlpacaService{
		client:    newClient(BreakerAlpaca, "https://data.alpaca.markets", opts),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		feed:      feed,
	}

	s.dataClient = marketdata.NewClient(marketdata.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		BaseURL:    s.baseURL,
		Feed:       feed,
		HTTPClient: s.httpClient,
	})

	return s
}

// Configured reports whether the service has credentials.
func (s *AlpacaService) Configured() bool {
	return s != nil && s.apiKey != "" && s.apiSecret != ""
}

// GetDailyCloses returns daily closing prices from since until now, oldest
// first.
func (s *AlpacaService) GetDailyCloses(ctx context.Context, symbol string, since time.Time) ([]models.PricePoint, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(symbol)
	bars, err := withBreaker(ctx, s.breakers, s.name, func() ([]marketdata.Bar, error) {
		return s.getBars(ctx, symbol, marketdata.GetBarsRequest{
			TimeFrame:  marketdata.OneDay,
			Adjustment: marketdata.Split,
			Start:      since,
			End:        time.Now(),
			Feed:       s.feed,
		})
	})
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", ErrNoData, symbol)
	}

	points := make([]models.PricePoint, 0, len(bars))
	for _, bar := range bars {
		y, m, d := bar.Timestamp.UTC().Date()
		points = append(points, models.PricePoint{
			Date:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Close: bar.Close,
		})
	}

	return points, nil
}

// getBars runs the SDK call so the caller's context bounds it. The SDK call
// itself takes no context.
func (s *AlpacaService) getBars(ctx context.Context, symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.name, "bars")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.name, "bars")

	type result struct {
		bars []marketdata.Bar
		err  error
	}
	done := make(chan result, 1)
	go func() {
		bars, err := s.dataClient.GetBars(symbol, req)
		done <- result{bars, err}
	}()

	select {
	case <-ctx.Done():
		metrics.RecordExternalAPIError(s.name, "bars", "timeout")
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			metrics.RecordExternalAPIError(s.name, "bars", "status")
			return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, r.err)
		}
		return r.bars, nil
	}
}
