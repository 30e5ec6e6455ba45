package mocks

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/models"
	"market-sentiment/services"
)

// The mock must speak each provider's wire format well enough for the real
// clients to decode it.

func TestMockServer_QuoteProviders(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	m.SetQuote("AAPL", 200)
	ctx := context.Background()

	sources := map[string]services.QuoteSource{
		ProviderFinnhub:      services.NewFinnhubService("key", services.WithBaseURL(m.ProviderURL(ProviderFinnhub))),
		ProviderFMP:          services.NewFMPService("key", services.WithBaseURL(m.ProviderURL(ProviderFMP))),
		ProviderAlphaVantage: services.NewAlphaVantageService("key", services.WithBaseURL(m.ProviderURL(ProviderAlphaVantage)+"/query")),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			q, err := src.GetQuote(ctx, "aapl")
			require.NoError(t, err)
			assert.Equal(t, "AAPL", q.Symbol)
			assert.Equal(t, 200.0, q.Price.InexactFloat64())
			assert.True(t, q.Price.GreaterThan(q.PreviousClose))
		})
	}
}

func TestMockServer_ProfileProviders(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	ctx := context.Background()

	fmp := services.NewFMPService("key", services.WithBaseURL(m.ProviderURL(ProviderFMP)))
	p, err := fmp.GetCompanyProfile(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT Holdings Inc", p.Name)

	finnhub := services.NewFinnhubService("key", services.WithBaseURL(m.ProviderURL(ProviderFinnhub)))
	p, err = finnhub.GetCompanyProfile(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, int64(250_000_000_000), p.MarketCap.IntPart())
}

func TestMockServer_UnknownSymbol(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	m.SetQuote("ZZZZ", 0)

	finnhub := services.NewFinnhubService("key", services.WithBaseURL(m.ProviderURL(ProviderFinnhub)))
	_, err := finnhub.GetQuote(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, services.ErrNoData)
}

func TestMockServer_News(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	ctx := context.Background()

	newsAPI := services.NewNewsAPIService("key", services.WithBaseURL(m.ProviderURL(ProviderNewsAPI)))
	articles, err := newsAPI.GetNews(ctx, "stocks", 10, 24)
	require.NoError(t, err)
	assert.Len(t, articles, 10)
	assert.Equal(t, "Financial Times", articles[0].Source)

	av := services.NewAlphaVantageService("key", services.WithBaseURL(m.ProviderURL(ProviderAlphaVantage)+"/query"))
	articles, err = av.GetNews(ctx, "stocks", 10, 24)
	require.NoError(t, err)
	assert.Len(t, articles, 5)
	assert.WithinDuration(t, time.Now(), articles[0].PublishedAt, 2*time.Hour)
}

func TestMockServer_Indicators(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	ctx := context.Background()

	av := services.NewAlphaVantageService("key", services.WithBaseURL(m.ProviderURL(ProviderAlphaVantage)+"/query"))

	rsi, err := av.GetRSI(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 58.4, rsi)

	macd, err := av.GetMACD(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, services.MACDValues{MACD: 1.25, Signal: 0.95, Histogram: 0.3}, macd)
}

func TestMockServer_History(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	since := time.Now().AddDate(0, 0, -60)

	alpaca := services.NewAlpacaService("key", "secret", "iex", services.WithBaseURL(m.ProviderURL(ProviderAlpaca)))
	closes, err := alpaca.GetDailyCloses(context.Background(), "SPY", since)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(closes), 60)
	assert.True(t, closes[0].Date.Before(closes[len(closes)-1].Date), "expected oldest first")

	av := services.NewAlphaVantageService("key", services.WithBaseURL(m.ProviderURL(ProviderAlphaVantage)+"/query"))
	closes, err = av.GetDailyCloses(context.Background(), "SPY", since)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(closes), 60)
}

func TestMockServer_MacroSeries(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	ctx := context.Background()
	since := time.Now().AddDate(-1, 0, 0)

	fred := services.NewFREDService("key", services.WithBaseURL(m.ProviderURL(ProviderFRED)))
	obs, err := fred.GetIndicator(ctx, models.MacroIndicators["cpi"], since)
	require.NoError(t, err)
	// weekly for a year, minus the missing value
	assert.InDelta(t, 52, len(obs), 2)

	av := services.NewAlphaVantageService("key", services.WithBaseURL(m.ProviderURL(ProviderAlphaVantage)+"/query"))
	obs, err = av.GetIndicator(ctx, models.MacroIndicators["cpi"], since)
	require.NoError(t, err)
	assert.NotEmpty(t, obs)
}

func TestMockServer_CAPETable(t *testing.T) {
	m := NewMockServer()
	defer m.Close()

	multpl := services.NewMultplService(true, m.ProviderURL(ProviderMultpl)+"/shiller-pe/table/by-month")
	points, err := multpl.GetCAPEHistory(context.Background(), time.Now().AddDate(-10, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 120, len(points), 2)
}

func TestMockServer_SocialRequiresTokens(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	ctx := context.Background()

	reddit := services.NewRedditService(services.RedditCredentials{
		ClientID:     "id",
		ClientSecret: "secret",
		UserAgent:    "test/1.0",
		TokenURL:     m.ProviderURL(ProviderReddit) + "/api/v1/access_token",
	}, []string{"stocks"}, services.WithBaseURL(m.ProviderURL(ProviderReddit)))
	posts, err := reddit.Search(ctx, "AAPL", 25)
	require.NoError(t, err)
	assert.Len(t, posts, 7)

	twitter := services.NewTwitterService(TwitterBearerToken, services.WithBaseURL(m.ProviderURL(ProviderTwitter)))
	posts, err = twitter.Search(ctx, "AAPL", 25)
	require.NoError(t, err)
	assert.Len(t, posts, 8)
	assert.Equal(t, "trader_1000", posts[0].Author)

	wrong := services.NewTwitterService("wrong", services.WithBaseURL(m.ProviderURL(ProviderTwitter)))
	_, err = wrong.Search(ctx, "AAPL", 25)
	assert.Error(t, err)
}

func TestMockServer_ErrorInjection(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	m.SetProviderError(ProviderFinnhub, http.StatusServiceUnavailable)

	finnhub := services.NewFinnhubService("key", services.WithBaseURL(m.ProviderURL(ProviderFinnhub)))
	_, err := finnhub.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Equal(t, 1, m.RequestCount(ProviderFinnhub))

	m.SetProviderError(ProviderFinnhub, 0)
	_, err = finnhub.GetQuote(context.Background(), "AAPL")
	assert.NoError(t, err)
}

func TestMockServer_DelayHonorsCancellation(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	m.SetProviderDelay(ProviderFMP, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fmp := services.NewFMPService("key", services.WithBaseURL(m.ProviderURL(ProviderFMP)))
	_, err := fmp.GetQuote(ctx, "AAPL")
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "expected deadline exceeded, got %v", err)
}

func TestMockServer_AlphaVantageNote(t *testing.T) {
	m := NewMockServer()
	defer m.Close()
	m.SetAlphaVantageNote("rate limit")

	av := services.NewAlphaVantageService("key", services.WithBaseURL(m.ProviderURL(ProviderAlphaVantage)+"/query"))
	_, err := av.GetRSI(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestMockServer_ConfigIsValid(t *testing.T) {
	m := NewMockServer()
	defer m.Close()

	cfg := m.Config()
	require.NoError(t, cfg.Validate())
	for name, ok := range cfg.ConfiguredProviders() {
		assert.True(t, ok, "expected %s configured", name)
	}
}
