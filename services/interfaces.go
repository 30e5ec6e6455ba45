package services

import (
	"context"
	"time"

	"market-sentiment/models"
)

// NewsSource returns articles for a free-text query or a European market
type NewsSource interface {
	Configured() bool
	GetNews(ctx context.Context, query string, limit, hours int) ([]models.Article, error)
	GetEuropeanNews(ctx context.Context, country string, limit, hours int) ([]models.Article, error)
}

// SocialSource searches posts on one platform
type SocialSource interface {
	Configured() bool
	Search(ctx context.Context, query string, limit int) ([]models.Post, error)
}

// QuoteSource returns the latest quote for a symbol
type QuoteSource interface {
	Configured() bool
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// ProfileSource returns descriptive company data
type ProfileSource interface {
	Configured() bool
	GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
}

// HistorySource returns daily closes
type HistorySource interface {
	Configured() bool
	GetDailyCloses(ctx context.Context, symbol string, since time.Time) ([]models.PricePoint, error)
}

// IndicatorSource returns precomputed momentum indicators
type IndicatorSource interface {
	Configured() bool
	GetRSI(ctx context.Context, symbol string) (float64, error)
	GetMACD(ctx context.Context, symbol string) (MACDValues, error)
}

// MacroSource returns an economic series
type MacroSource interface {
	Configured() bool
	GetIndicator(ctx context.Context, ind models.MacroIndicator, since time.Time) ([]models.Observation, error)
}

// CAPESource returns the Shiller P/E history
type CAPESource interface {
	Configured() bool
	GetCAPEHistory(ctx context.Context, since time.Time) ([]models.CAPEPoint, error)
}

// GetIndicator adapts Alpha Vantage economic series to MacroSource.
func (s *AlphaVantageService) GetIndicator(ctx context.Context, ind models.MacroIndicator, since time.Time) ([]models.Observation, error) {
	return s.GetEconomicSeries(ctx, ind, since)
}

// Compile-time interface verification
var (
	_ NewsSource      = (*NewsAPIService)(nil)
	_ NewsSource      = (*AlphaVantageService)(nil)
	_ SocialSource    = (*RedditService)(nil)
	_ SocialSource    = (*TwitterService)(nil)
	_ QuoteSource     = (*FinnhubService)(nil)
	_ QuoteSource     = (*FMPService)(nil)
	_ QuoteSource     = (*AlphaVantageService)(nil)
	_ ProfileSource   = (*FMPService)(nil)
	_ ProfileSource   = (*FinnhubService)(nil)
	_ HistorySource   = (*AlpacaService)(nil)
	_ HistorySource   = (*AlphaVantageService)(nil)
	_ IndicatorSource = (*AlphaVantageService)(nil)
	_ MacroSource     = (*FREDService)(nil)
	_ MacroSource     = (*AlphaVantageService)(nil)
	_ CAPESource      = (*MultplService)(nil)
)
