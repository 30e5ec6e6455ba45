package mocks

import (
	"time"

	"market-sentiment/config"
)

// Config returns a configuration with every provider credentialed and
// pointed at the mock server.
func (m *MockServer) Config() *config.Config {
	cfg := config.NewTestConfig()

	cfg.Mock.Seed = 42

	cfg.NewsAPI.APIKey = "newsapi-key"
	cfg.NewsAPI.BaseURL = m.ProviderURL(ProviderNewsAPI)
	cfg.AlphaVantage.APIKey = "alphavantage-key"
	cfg.AlphaVantage.BaseURL = m.ProviderURL(ProviderAlphaVantage) + "/query"
	cfg.Finnhub.APIKey = "finnhub-key"
	cfg.Finnhub.BaseURL = m.ProviderURL(ProviderFinnhub)
	cfg.FMP.APIKey = "fmp-key"
	cfg.FMP.BaseURL = m.ProviderURL(ProviderFMP)
	cfg.Alpaca.APIKey = "alpaca-key"
	cfg.Alpaca.APISecret = "alpaca-secret"
	cfg.Alpaca.DataURL = m.ProviderURL(ProviderAlpaca)
	cfg.FRED.APIKey = "fred-key"
	cfg.FRED.BaseURL = m.ProviderURL(ProviderFRED)
	cfg.Reddit.ClientID = "reddit-client"
	cfg.Reddit.ClientSecret = "reddit-secret"
	cfg.Reddit.BaseURL = m.ProviderURL(ProviderReddit)
	cfg.Reddit.TokenURL = m.ProviderURL(ProviderReddit) + "/api/v1/access_token"
	cfg.Twitter.BearerToken = TwitterBearerToken
	cfg.Twitter.BaseURL = m.ProviderURL(ProviderTwitter)
	cfg.Multpl.Enabled = true
	cfg.Multpl.URL = m.ProviderURL(ProviderMultpl) + "/shiller-pe/table/by-month"

	// Tests issue bursts of requests; production limits would throttle them.
	for _, rl := range []struct {
		rps   *float64
		burst *int
	}{
		{&cfg.NewsAPI.RequestsPerSecond, &cfg.NewsAPI.Burst},
		{&cfg.AlphaVantage.RequestsPerSecond, &cfg.AlphaVantage.Burst},
		{&cfg.Finnhub.RequestsPerSecond, &cfg.Finnhub.Burst},
		{&cfg.FMP.RequestsPerSecond, &cfg.FMP.Burst},
		{&cfg.Alpaca.RequestsPerSecond, &cfg.Alpaca.Burst},
		{&cfg.FRED.RequestsPerSecond, &cfg.FRED.Burst},
		{&cfg.Reddit.RequestsPerSecond, &cfg.Reddit.Burst},
		{&cfg.Twitter.RequestsPerSecond, &cfg.Twitter.Burst},
		{&cfg.Multpl.RequestsPerSecond, &cfg.Multpl.Burst},
	} {
		*rl.rps, *rl.burst = 1000, 1000
	}

	cfg.Timeouts = config.TimeoutConfig{
		News:       2 * time.Second,
		Social:     2 * time.Second,
		Quote:      2 * time.Second,
		Profile:    2 * time.Second,
		Technicals: 2 * time.Second,
		History:    3 * time.Second,
		Macro:      3 * time.Second,
		CAPE:       3 * time.Second,
	}

	return cfg
}
