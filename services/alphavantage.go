package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"market-sentiment/models"
	"market-sentiment/observability"

	"github.com/shopspring/decimal"
)

// AlphaVantageService handles communication with Alpha Vantage API
type AlphaVantageService struct {
	client
	apiKey string
}

// NewAlphaVantageService creates a new AlphaVantageService instance
func NewAlphaVantageService(apiKey string, opts ...Option) *AlphaVantageService {
	return &AlphaVantageService{
		client: newClient(BreakerAlphaVantage, "https://www.alphavantage.co/query", opts),
		apiKey: apiKey,
	}
}

// Configured reports whether the service has credentials.
func (s *AlphaVantageService) Configured() bool {
	return s != nil && s.apiKey != ""
}

// avStatus captures the business errors Alpha Vantage returns with a 200.
type avStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (st avStatus) err() error {
	switch {
	case st.ErrorMessage != "":
		return fmt.Errorf("%w: %s", ErrProviderReported, st.ErrorMessage)
	case st.Note != "":
		return fmt.Errorf("%w: %s", ErrProviderReported, st.Note)
	case st.Information != "":
		return fmt.Errorf("%w: %s", ErrProviderReported, st.Information)
	}
	return nil
}

// query calls the API with function-specific params and decodes into out.
func (s *AlphaVantageService) query(ctx context.Context, function string, params url.Values, out any) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	params.Set("function", function)
	params.Set("apikey", s.apiKey)

	body, err := s.get(ctx, function, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	var st avStatus
	if err := json.Unmarshal(body, &st); err == nil {
		if err := st.err(); err != nil {
			return fmt.Errorf("alphavantage %s: %w", function, err)
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", function, err)
	}
	return nil
}

// NewsResponse represents the news response from Alpha Vantage
type NewsResponse struct {
	Items string `json:"items"`
	Feed  []struct {
		Title            string   `json:"title"`
		URL              string   `json:"url"`
		Summary          string   `json:"summary"`
		Source           string   `json:"source"`
		TimePublished    string   `json:"time_published"`
		Authors          []string `json:"authors"`
		OverallSentiment string   `json:"overall_sentiment_label"`
		SentimentScore   float64  `json:"overall_sentiment_score"`
	} `json:"feed"`
}

const avTimeLayout = "20060102T150405"

// GetNews returns recent market news. A ticker-shaped query filters by
// ticker; anything else uses the financial markets topic feed.
func (s *AlphaVantageService) GetNews(ctx context.Context, query string, limit, hours int) ([]models.Article, error) {
	params := url.Values{}
	if isTickerQuery(query) {
		params.Set("tickers", strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(query), "$")))
	} else {
		params.Set("topics", "financial_markets")
	}
	return s.news(ctx, params, limit, hours)
}

// GetEuropeanNews returns macro and monetary policy news.
func (s *AlphaVantageService) GetEuropeanNews(ctx context.Context, country string, limit, hours int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("topics", "economy_monetary,economy_macro")
	return s.news(ctx, params, limit, hours)
}

func (s *AlphaVantageService) news(ctx context.Context, params url.Values, limit, hours int) ([]models.Article, error) {
	params.Set("sort", "LATEST")
	params.Set("limit", strconv.Itoa(max(clampLimit(limit), 50)))
	if hours > 0 {
		params.Set("time_from", time.Now().UTC().Add(-time.Duration(hours)*time.Hour).Format("20060102T1504"))
	}

	var newsResp NewsResponse
	if err := s.query(ctx, "NEWS_SENTIMENT", params, &newsResp); err != nil {
		return nil, err
	}

	log := observability.WithProvider(s.name)
	articles := make([]models.Article, 0, len(newsResp.Feed))
	for _, item := range newsResp.Feed {
		publishedAt, err := time.Parse(avTimeLayout, item.TimePublished)
		if err != nil {
			log.Debug("failed to parse timestamp, using current time", "value", item.TimePublished, "error", err)
			publishedAt = time.Now().UTC()
		}

		articles = append(articles, models.Article{
			Title:       CleanText(item.Title),
			Description: CleanText(item.Summary),
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

// QuoteResponse represents a quote from Alpha Vantage
type QuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		LatestDay     string `json:"07. latest trading day"`
		PrevClose     string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// GetQuote returns the latest quote for a symbol
func (s *AlphaVantageService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))

	var quoteResp QuoteResponse
	if err := s.query(ctx, "GLOBAL_QUOTE", params, &quoteResp); err != nil {
		return nil, err
	}

	gq := quoteResp.GlobalQuote
	if gq.Price == "" {
		return nil, fmt.Errorf("%w: empty quote for %s", ErrNoData, symbol)
	}

	var volume int64
	if gq.Volume != "" {
		v, err := strconv.ParseInt(gq.Volume, 10, 64)
		if err != nil {
			observability.WithProvider(s.name).Debug("failed to parse volume", "value", gq.Volume, "error", err)
		}
		volume = v
	}

	timestamp := time.Now().UTC()
	if day, err := time.Parse(time.DateOnly, gq.LatestDay); err == nil {
		timestamp = day
	}

	return &models.Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         parseDecimal(gq.Price),
		Change:        parseDecimal(gq.Change),
		ChangePercent: parseDecimal(strings.TrimSuffix(gq.ChangePercent, "%")),
		Open:          parseDecimal(gq.Open),
		High:          parseDecimal(gq.High),
		Low:           parseDecimal(gq.Low),
		PreviousClose: parseDecimal(gq.PrevClose),
		Volume:        volume,
		Timestamp:     timestamp,
	}, nil
}

func (s *AlphaVantageService) indicator(ctx context.Context, function, symbol string, extra url.Values) (map[string]string, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("interval", "daily")
	params.Set("series_type", "close")
	for k, v := range extra {
		params[k] = v
	}

	var raw map[string]json.RawMessage
	if err := s.query(ctx, function, params, &raw); err != nil {
		return nil, err
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(raw["Technical Analysis: "+function], &series); err != nil || len(series) == 0 {
		return nil, fmt.Errorf("%w: no %s values for %s", ErrNoData, function, symbol)
	}

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	// ISO dates sort chronologically
	return series[slices.Max(dates)], nil
}

// GetRSI returns the latest daily 14-period RSI.
func (s *AlphaVantageService) GetRSI(ctx context.Context, symbol string) (float64, error) {
	extra := url.Values{}
	extra.Set("time_period", "14")

	values, err := s.indicator(ctx, "RSI", symbol, extra)
	if err != nil {
		return 0, err
	}
	return parseFloatField(values, "RSI")
}

// MACDValues is the latest MACD reading
type MACDValues struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// GetMACD returns the latest daily MACD(12,26,9).
func (s *AlphaVantageService) GetMACD(ctx context.Context, symbol string) (MACDValues, error) {
	values, err := s.indicator(ctx, "MACD", symbol, nil)
	if err != nil {
		return MACDValues{}, err
	}

	var out MACDValues
	if out.MACD, err = parseFloatField(values, "MACD"); err != nil {
		return MACDValues{}, err
	}
	if out.Signal, err = parseFloatField(values, "MACD_Signal"); err != nil {
		return MACDValues{}, err
	}
	if out.Histogram, err = parseFloatField(values, "MACD_Hist"); err != nil {
		return MACDValues{}, err
	}
	return out, nil
}

type dailySeriesResponse struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
}

// GetDailyCloses returns daily closes from since, oldest first.
func (s *AlphaVantageService) GetDailyCloses(ctx context.Context, symbol string, since time.Time) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("outputsize", "compact")
	// compact covers the last 100 trading days
	if time.Since(since) > 140*24*time.Hour {
		params.Set("outputsize", "full")
	}

	var resp dailySeriesResponse
	if err := s.query(ctx, "TIME_SERIES_DAILY", params, &resp); err != nil {
		return nil, err
	}

	points := make([]models.PricePoint, 0, len(resp.Series))
	for day, v := range resp.Series {
		d, err := time.Parse(time.DateOnly, day)
		if err != nil || d.Before(since) {
			continue
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			continue
		}
		points = append(points, models.PricePoint{Date: d, Close: c})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no daily series for %s", ErrNoData, symbol)
	}

	slices.SortFunc(points, func(a, b models.PricePoint) int { return a.Date.Compare(b.Date) })
	return points, nil
}

type economicResponse struct {
	Name     string `json:"name"`
	Interval string `json:"interval"`
	Unit     string `json:"unit"`
	Data     []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
}

// GetEconomicSeries returns an economic indicator series from since,
// oldest first.
func (s *AlphaVantageService) GetEconomicSeries(ctx context.Context, ind models.MacroIndicator, since time.Time) ([]models.Observation, error) {
	if ind.AlphaVantageFunction == "" {
		return nil, fmt.Errorf("%w: alphavantage has no %s series", ErrNoData, ind.Key)
	}

	params := url.Values{}
	if ind.AlphaVantageInterval != "" {
		params.Set("interval", ind.AlphaVantageInterval)
	}
	if ind.AlphaVantageMaturity != "" {
		params.Set("maturity", ind.AlphaVantageMaturity)
	}

	var resp economicResponse
	if err := s.query(ctx, ind.AlphaVantageFunction, params, &resp); err != nil {
		return nil, err
	}

	obs := make([]models.Observation, 0, len(resp.Data))
	for _, p := range resp.Data {
		d, err := time.Parse(time.DateOnly, p.Date)
		if err != nil || d.Before(since) {
			continue
		}
		// Missing observations are reported as "."
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			continue
		}
		obs = append(obs, models.Observation{Date: d, Value: v})
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: no %s observations", ErrNoData, ind.AlphaVantageFunction)
	}

	slices.SortFunc(obs, func(a, b models.Observation) int { return a.Date.Compare(b.Date) })
	return obs, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseFloatField(values map[string]string, key string) (float64, error) {
	v, err := strconv.ParseFloat(values[key], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s value %q", ErrNoData, key, values[key])
	}
	return v, nil
}

func isTickerQuery(q string) bool {
	q = strings.TrimSpace(q)
	if strings.HasPrefix(q, "$") {
		return true
	}
	if q == "" || len(q) > 5 {
		return false
	}
	for _, r := range q {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
