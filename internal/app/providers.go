package app

import (
	"net/http"

	"market-sentiment/config"
	"market-sentiment/models"
	"market-sentiment/services"
)

// Named pairs an upstream source with the provider name used in logs,
// metrics and response metadata.
type Named[T any] struct {
	Name   string
	Source T
}

// Providers holds the upstream sources of every dataset, in priority order.
type Providers struct {
	News       []Named[services.NewsSource]
	Social     map[models.Platform]Named[services.SocialSource]
	Quotes     []Named[services.QuoteSource]
	Profiles   []Named[services.ProfileSource]
	Indicators []Named[services.IndicatorSource]
	History    []Named[services.HistorySource]
	Macro      []Named[services.MacroSource]
	CAPE       []Named[services.CAPESource]
}

// NewProviders builds every upstream client from configuration. Clients are
// built even without credentials; they report themselves unconfigured and
// are skipped without a network call.
func NewProviders(cfg *config.Config, breakers *services.CircuitBreakerRegistry, hc *http.Client) Providers {
	opts := func(baseURL string, rps float64, burst int) []services.Option {
		return []services.Option{
			services.WithBaseURL(baseURL),
			services.WithHTTPClient(hc),
			services.WithBreakers(breakers),
			services.WithRateLimit(rps, burst),
		}
	}

	newsAPI := services.NewNewsAPIService(cfg.NewsAPI.APIKey,
		opts(cfg.NewsAPI.BaseURL, cfg.NewsAPI.RequestsPerSecond, cfg.NewsAPI.Burst)...)
	alphaVantage := services.NewAlphaVantageService(cfg.AlphaVantage.APIKey,
		opts(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.RequestsPerSecond, cfg.AlphaVantage.Burst)...)
	finnhub := services.NewFinnhubService(cfg.Finnhub.APIKey,
		opts(cfg.Finnhub.BaseURL, cfg.Finnhub.RequestsPerSecond, cfg.Finnhub.Burst)...)
	fmp := services.NewFMPService(cfg.FMP.APIKey,
		opts(cfg.FMP.BaseURL, cfg.FMP.RequestsPerSecond, cfg.FMP.Burst)...)
	alpaca := services.NewAlpacaService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.Feed,
		opts(cfg.Alpaca.DataURL, cfg.Alpaca.RequestsPerSecond, cfg.Alpaca.Burst)...)
	fred := services.NewFREDService(cfg.FRED.APIKey,
		opts(cfg.FRED.BaseURL, cfg.FRED.RequestsPerSecond, cfg.FRED.Burst)...)
	reddit := services.NewRedditService(services.RedditCredentials{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		TokenURL:     cfg.Reddit.TokenURL,
	}, cfg.Reddit.SubredditList(), opts(cfg.Reddit.BaseURL, cfg.Reddit.RequestsPerSecond, cfg.Reddit.Burst)...)
	twitter := services.NewTwitterService(cfg.Twitter.BearerToken,
		opts(cfg.Twitter.BaseURL, cfg.Twitter.RequestsPerSecond, cfg.Twitter.Burst)...)
	multpl := services.NewMultplService(cfg.Multpl.Enabled,
		cfg.Multpl.URL, opts(cfg.Multpl.URL, cfg.Multpl.RequestsPerSecond, cfg.Multpl.Burst)...)

	return Providers{
		News: []Named[services.NewsSource]{
			{services.BreakerNewsAPI, newsAPI},
			{services.BreakerAlphaVantage, alphaVantage},
		},
		Social: map[models.Platform]Named[services.SocialSource]{
			models.PlatformReddit:  {services.BreakerReddit, reddit},
			models.PlatformTwitter: {services.BreakerTwitter, twitter},
		},
		Quotes: []Named[services.QuoteSource]{
			{services.BreakerFinnhub, finnhub},
			{services.BreakerFMP, fmp},
			{services.BreakerAlphaVantage, alphaVantage},
		},
		Profiles: []Named[services.ProfileSource]{
			{services.BreakerFMP, fmp},
			{services.BreakerFinnhub, finnhub},
		},
		Indicators: []Named[services.IndicatorSource]{
			{services.BreakerAlphaVantage, alphaVantage},
		},
		History: []Named[services.HistorySource]{
			{services.BreakerAlpaca, alpaca},
			{services.BreakerAlphaVantage, alphaVantage},
		},
		Macro: []Named[services.MacroSource]{
			{services.BreakerFRED, fred},
			{services.BreakerAlphaVantage, alphaVantage},
		},
		CAPE: []Named[services.CAPESource]{
			{services.BreakerMultpl, multpl},
		},
	}
}
