// Package mocks provides an HTTP mock of every upstream provider used in E2E
// tests. Each provider is served under its own path prefix, e.g.
// /finnhub/quote or /alphavantage/query.
package mocks

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockServer provides configurable mock responses for all upstream APIs.
type MockServer struct {
	mu     sync.RWMutex
	server *httptest.Server
	now    func() time.Time

	// Response configurations
	newsArticles []NewsArticle
	quotes       map[string]float64
	redditPosts  []RedditPost
	tweets       []Tweet
	avNote       string

	// Error and latency injection, by provider
	errors map[string]int
	delays map[string]time.Duration

	// Request tracking for assertions
	requestLog []RequestLog
}

// RequestLog records incoming requests for test assertions.
type RequestLog struct {
	Provider string
	Method   string
	Path     string
	Query    string
}

// NewMockServer creates a new mock server with default responses.
func NewMockServer() *MockServer {
	m := &MockServer{
		now:        func() time.Time { return time.Now().UTC() },
		quotes:     make(map[string]float64),
		errors:     make(map[string]int),
		delays:     make(map[string]time.Duration),
		requestLog: make([]RequestLog, 0),
	}
	m.setDefaults()
	m.server = httptest.NewServer(m)
	return m
}

// URL returns the mock server's base URL.
func (m *MockServer) URL() string {
	return m.server.URL
}

// ProviderURL returns the base URL a provider is served under.
func (m *MockServer) ProviderURL(provider string) string {
	return m.server.URL + "/" + provider
}

// Close shuts down the mock server.
func (m *MockServer) Close() {
	m.server.Close()
}

// ServeHTTP implements http.Handler to route requests to appropriate mock handlers.
func (m *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	provider, rest, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	rest = "/" + rest

	m.mu.Lock()
	m.requestLog = append(m.requestLog, RequestLog{
		Provider: provider,
		Method:   r.Method,
		Path:     rest,
		Query:    r.URL.RawQuery,
	})
	status := m.errors[provider]
	delay := m.delays[provider]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	switch provider {
	case ProviderNewsAPI:
		m.handleNewsAPI(w, r, rest)
	case ProviderAlphaVantage:
		m.handleAlphaVantage(w, r)
	case ProviderFinnhub:
		m.handleFinnhub(w, r, rest)
	case ProviderFMP:
		m.handleFMP(w, rest)
	case ProviderAlpaca:
		m.handleAlpacaBars(w, r, rest)
	case ProviderFRED:
		m.handleFRED(w, r, rest)
	case ProviderReddit:
		m.handleReddit(w, r, rest)
	case ProviderTwitter:
		m.handleTwitter(w, r, rest)
	case ProviderMultpl:
		m.handleMultpl(w)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GetRequestLog returns all logged requests for assertions.
func (m *MockServer) GetRequestLog() []RequestLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RequestLog{}, m.requestLog...)
}

// RequestCount returns how many requests reached a provider.
func (m *MockServer) RequestCount(provider string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requestLog {
		if r.Provider == provider {
			n++
		}
	}
	return n
}

// ClearRequestLog clears the request log.
func (m *MockServer) ClearRequestLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestLog = make([]RequestLog, 0)
}

// SetProviderError makes every request to provider fail with status. A zero
// status clears the error.
func (m *MockServer) SetProviderError(provider string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == 0 {
		delete(m.errors, provider)
		return
	}
	m.errors[provider] = status
}

// SetProviderDelay delays every response from provider.
func (m *MockServer) SetProviderDelay(provider string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[provider] = d
}

// SetNewsArticles configures the NewsAPI articles response.
func (m *MockServer) SetNewsArticles(articles []NewsArticle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newsArticles = articles
}

// SetQuote configures the price served for a symbol by every quote provider.
// A zero price makes the symbol unknown.
func (m *MockServer) SetQuote(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[strings.ToUpper(symbol)] = price
}

// SetRedditPosts configures the Reddit search response.
func (m *MockServer) SetRedditPosts(posts []RedditPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redditPosts = posts
}

// SetTweets configures the X recent search response.
func (m *MockServer) SetTweets(tweets []Tweet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweets = tweets
}

// SetAlphaVantageNote makes Alpha Vantage answer every query with a 200
// carrying only a rate limit note, the way the real API does.
func (m *MockServer) SetAlphaVantageNote(note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avNote = note
}

func (m *MockServer) setDefaults() {
	now := m.now()
	m.newsArticles = generateDefaultNewsArticles(15, now)
	m.redditPosts = generateDefaultRedditPosts(8, now)
	m.tweets = generateDefaultTweets(8, now)
}

func (m *MockServer) price(symbol string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.quotes[strings.ToUpper(symbol)]; ok {
		return p
	}
	return basePrice(symbol)
}

func (m *MockServer) handleNewsAPI(w http.ResponseWriter, r *http.Request, path string) {
	if path != "/everything" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Header.Get("X-Api-Key") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"status": "error", "code": "apiKeyMissing", "message": "Your API key is missing.",
		})
		return
	}

	m.mu.RLock()
	articles := m.newsArticles
	m.mu.RUnlock()

	if n, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && n < len(articles) {
		articles = articles[:n]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"totalResults": len(articles),
		"articles":     articles,
	})
}

func (m *MockServer) handleAlphaVantage(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	note := m.avNote
	m.mu.RUnlock()

	if note != "" {
		writeJSON(w, http.StatusOK, map[string]string{"Note": note})
		return
	}

	q := r.URL.Query()
	symbol := q.Get("symbol")
	now := m.now()

	switch fn := q.Get("function"); fn {
	case "NEWS_SENTIMENT":
		feed := make([]AlphaVantageNewsItem, 0, 5)
		for i := range 5 {
			feed = append(feed, AlphaVantageNewsItem{
				Title:         fmt.Sprintf("Markets rally as earnings beat expectations (%d)", i),
				URL:           fmt.Sprintf("https://example.com/av/%d", i),
				Summary:       "Stocks gained on strong growth and upbeat guidance.",
				Source:        "Benzinga",
				TimePublished: now.Add(-time.Duration(i+1) * time.Hour).Format("20060102T150405"),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": strconv.Itoa(len(feed)), "feed": feed})

	case "GLOBAL_QUOTE":
		p := m.price(symbol)
		if p == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"Global Quote": map[string]string{}})
			return
		}
		prev := p / 1.01
		writeJSON(w, http.StatusOK, map[string]any{"Global Quote": map[string]string{
			"01. symbol":             strings.ToUpper(symbol),
			"02. open":               formatFloat(prev),
			"03. high":               formatFloat(p * 1.005),
			"04. low":                formatFloat(prev * 0.995),
			"05. price":              formatFloat(p),
			"06. volume":             "1250000",
			"07. latest trading day": now.Format(time.DateOnly),
			"08. previous close":     formatFloat(prev),
			"09. change":             formatFloat(p - prev),
			"10. change percent":     "1.0000%",
		}})

	case "RSI":
		writeJSON(w, http.StatusOK, map[string]any{
			"Technical Analysis: RSI": map[string]map[string]string{
				now.AddDate(0, 0, -1).Format(time.DateOnly): {"RSI": "58.4000"},
				now.AddDate(0, 0, -2).Format(time.DateOnly): {"RSI": "55.1000"},
			},
		})

	case "MACD":
		writeJSON(w, http.StatusOK, map[string]any{
			"Technical Analysis: MACD": map[string]map[string]string{
				now.AddDate(0, 0, -1).Format(time.DateOnly): {
					"MACD": "1.2500", "MACD_Signal": "0.9500", "MACD_Hist": "0.3000",
				},
			},
		})

	case "TIME_SERIES_DAILY":
		series := make(map[string]map[string]string)
		for _, bar := range generateBars(symbol, now.AddDate(0, 0, -140), now) {
			series[bar.Timestamp[:10]] = map[string]string{"4. close": formatFloat(bar.Close)}
		}
		writeJSON(w, http.StatusOK, map[string]any{"Time Series (Daily)": series})

	default:
		// Economic indicators share one shape, newest first.
		obs := generateObservations(fn, now.AddDate(-5, 0, 0), now, 30)
		data := make([]FREDObservation, 0, len(obs))
		for i := len(obs) - 1; i >= 0; i-- {
			data = append(data, obs[i])
		}
		writeJSON(w, http.StatusOK, map[string]any{"name": fn, "interval": "monthly", "unit": "percent", "data": data})
	}
}

func (m *MockServer) handleFinnhub(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("X-Finnhub-Token") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please use an API key."})
		return
	}
	symbol := strings.ToUpper(r.URL.Query().Get("symbol"))

	switch path {
	case "/quote":
		p := m.price(symbol)
		if p == 0 {
			// unknown symbols come back as zeros
			writeJSON(w, http.StatusOK, FinnhubQuote{})
			return
		}
		prev := p / 1.01
		writeJSON(w, http.StatusOK, FinnhubQuote{
			Current:       p,
			Change:        round2(p - prev),
			ChangePercent: 1,
			High:          round2(p * 1.005),
			Low:           round2(prev * 0.995),
			Open:          round2(prev),
			PreviousClose: round2(prev),
			Timestamp:     m.now().Unix(),
		})
	case "/stock/profile2":
		writeJSON(w, http.StatusOK, map[string]any{
			"name":                 symbol + " Holdings Inc",
			"ticker":               symbol,
			"exchange":             "NASDAQ NMS - GLOBAL MARKET",
			"finnhubIndustry":      "Technology",
			"country":              "US",
			"marketCapitalization": 250000.0,
			"weburl":               "https://example.com/" + strings.ToLower(symbol),
		})
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (m *MockServer) handleFMP(w http.ResponseWriter, path string) {
	kind, symbol, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	symbol = strings.ToUpper(symbol)

	switch kind {
	case "quote":
		p := m.price(symbol)
		if p == 0 {
			writeJSON(w, http.StatusOK, []FMPQuote{})
			return
		}
		prev := p / 1.01
		writeJSON(w, http.StatusOK, []FMPQuote{{
			Symbol:            symbol,
			Name:              symbol + " Holdings Inc",
			Price:             p,
			ChangesPercentage: 1,
			Change:            round2(p - prev),
			DayLow:            round2(prev * 0.995),
			DayHigh:           round2(p * 1.005),
			Open:              round2(prev),
			PreviousClose:     round2(prev),
			Volume:            1250000,
			Timestamp:         m.now().Unix(),
		}})
	case "profile":
		writeJSON(w, http.StatusOK, []FMPProfile{{
			Symbol:            symbol,
			CompanyName:       symbol + " Holdings Inc",
			MktCap:            250_000_000_000,
			ExchangeShortName: "NASDAQ",
			Sector:            "Technology",
			Industry:          "Consumer Electronics",
			Country:           "US",
			Website:           "https://example.com/" + strings.ToLower(symbol),
		}})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"Error Message": "Invalid API endpoint."})
	}
}

func (m *MockServer) handleAlpacaBars(w http.ResponseWriter, r *http.Request, path string) {
	if !strings.HasPrefix(path, "/v2/stocks") || !strings.HasSuffix(path, "/bars") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Header.Get("APCA-API-KEY-ID") == "" {
		http.Error(w, `{"message":"forbidden"}`, http.StatusForbidden)
		return
	}

	q := r.URL.Query()
	var symbols []string
	if s := q.Get("symbols"); s != "" {
		symbols = strings.Split(s, ",")
	} else {
		// single symbol form: /v2/stocks/{symbol}/bars
		parts := strings.Split(strings.Trim(path, "/"), "/")
		if len(parts) == 4 {
			symbols = []string{parts[2]}
		}
	}

	now := m.now()
	start := now.AddDate(0, 0, -200)
	if t, err := time.Parse(time.RFC3339, q.Get("start")); err == nil {
		start = t
	}

	bars := make(map[string][]AlpacaBar, len(symbols))
	for _, s := range symbols {
		if m.price(s) == 0 {
			continue
		}
		bars[strings.ToUpper(s)] = generateBars(s, start, now)
	}
	writeJSON(w, http.StatusOK, map[string]any{"bars": bars, "next_page_token": nil})
}

func (m *MockServer) handleFRED(w http.ResponseWriter, r *http.Request, path string) {
	if path != "/series/observations" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	if q.Get("api_key") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error_code": 400, "error_message": "Bad Request. Variable api_key is not set."})
		return
	}

	now := m.now()
	start := now.AddDate(-1, 0, 0)
	if t, err := time.Parse(time.DateOnly, q.Get("observation_start")); err == nil {
		start = t
	}
	step := 7
	if now.Sub(start) > 10*365*24*time.Hour {
		step = 30
	}

	obs := generateObservations(q.Get("series_id"), start, now, step)
	// a holiday gap, reported the way FRED does
	if len(obs) > 2 {
		obs[1].Value = "."
	}
	writeJSON(w, http.StatusOK, map[string]any{"observations": obs})
}

func (m *MockServer) handleReddit(w http.ResponseWriter, r *http.Request, path string) {
	switch {
	case path == "/api/v1/access_token":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if _, _, ok := r.BasicAuth(); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": RedditAccessToken,
			"token_type":   "bearer",
			"expires_in":   3600,
			"scope":        "*",
		})

	case strings.HasPrefix(path, "/r/") && strings.HasSuffix(path, "/search"):
		if r.Header.Get("Authorization") != "Bearer "+RedditAccessToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized", "error": 401})
			return
		}
		m.mu.RLock()
		posts := m.redditPosts
		m.mu.RUnlock()

		children := make([]map[string]any, 0, len(posts))
		for _, p := range posts {
			children = append(children, map[string]any{"kind": "t3", "data": p})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"kind": "Listing",
			"data": map[string]any{"children": children},
		})

	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (m *MockServer) handleTwitter(w http.ResponseWriter, r *http.Request, path string) {
	if path != "/tweets/search/recent" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+TwitterBearerToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"title": "Unauthorized", "status": 401})
		return
	}

	m.mu.RLock()
	tweets := m.tweets
	m.mu.RUnlock()

	users := make([]map[string]string, 0, len(tweets))
	for _, t := range tweets {
		users = append(users, map[string]string{"id": t.AuthorID, "username": "trader_" + t.AuthorID})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":     tweets,
		"includes": map[string]any{"users": users},
		"meta":     map[string]any{"result_count": len(tweets)},
	})
}

func (m *MockServer) handleMultpl(w http.ResponseWriter) {
	now := m.now()
	first := time.Date(now.Year()-40, now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var b strings.Builder
	b.WriteString(`<html><body><table id="datatable"><tr><th>Date</th><th>Value</th></tr>`)
	// newest first, like the real table
	months := (now.Year()-first.Year())*12 + int(now.Month()-first.Month())
	for i := months; i >= 0; i-- {
		d := first.AddDate(0, i, 0)
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%.2f</td></tr>", d.Format("Jan 2, 2006"), capeValue(i))
	}
	b.WriteString(`</table></body></html>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(b.String()))
}

// capeValue drifts upward from 15 with a slow cycle.
func capeValue(month int) float64 {
	return 15 + 0.03*float64(month) + 2*math.Sin(float64(month)/18)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', 4, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// basePrice derives a stable price per symbol.
func basePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToUpper(symbol)))
	return float64(50 + h.Sum32()%400)
}

// generateBars returns one bar per calendar day from start through end.
func generateBars(symbol string, start, end time.Time) []AlpacaBar {
	base := basePrice(symbol)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var bars []AlpacaBar
	for i := 0; !day.After(end); i++ {
		price := round2(base + 0.1*float64(i) + 3*math.Sin(float64(i)/5))
		bars = append(bars, AlpacaBar{
			Timestamp: day.Format(time.RFC3339),
			Open:      price - 1,
			High:      price + 2,
			Low:       price - 2,
			Close:     price,
			Volume:    1000000 + int64(i*10000),
		})
		day = day.AddDate(0, 0, 1)
	}
	return bars
}

// generateObservations returns an observation every step days from start
// through end, oldest first.
func generateObservations(seriesID string, start, end time.Time, step int) []FREDObservation {
	h := fnv.New32a()
	h.Write([]byte(seriesID))
	base := 1 + float64(h.Sum32()%50)

	var obs []FREDObservation
	for i, d := 0, start; !d.After(end); i, d = i+1, d.AddDate(0, 0, step) {
		v := base + 0.5*math.Sin(float64(i)/4) + 0.01*float64(i)
		obs = append(obs, FREDObservation{Date: d.Format(time.DateOnly), Value: strconv.FormatFloat(v, 'f', 2, 64)})
	}
	return obs
}

func generateDefaultNewsArticles(count int, now time.Time) []NewsArticle {
	articles := make([]NewsArticle, count)
	titles := []string{
		"Company Reports Strong Quarterly Earnings",
		"New Product Launch Expected to Boost Sales",
		"Analyst Upgrades Stock to Buy",
		"Shares Slump After Weak Guidance",
		"Fed Holds Rates Steady as Inflation Cools",
	}
	for i := range count {
		articles[i] = NewsArticle{
			Source:      map[string]string{"name": "Financial Times"},
			Author:      "Test Author",
			Title:       fmt.Sprintf("%s (%d)", titles[i%len(titles)], i),
			Description: "This is a test article description for E2E testing.",
			URL:         fmt.Sprintf("https://example.com/article/%d", i),
			PublishedAt: now.Add(-time.Duration(i+1) * time.Hour).Format(time.RFC3339),
		}
	}
	return articles
}

func generateDefaultRedditPosts(count int, now time.Time) []RedditPost {
	titles := []string{
		"TSLA to the moon, calls printing",
		"Bought the dip on NVDA, bullish into earnings",
		"This market is a bubble, puts loaded",
		"Daily discussion thread",
	}
	posts := make([]RedditPost, count)
	for i := range count {
		posts[i] = RedditPost{
			Title:       fmt.Sprintf("%s #%d", titles[i%len(titles)], i),
			Selftext:    "Not financial advice.",
			Author:      fmt.Sprintf("redditor%d", i),
			Subreddit:   "r/wallstreetbets",
			Permalink:   fmt.Sprintf("/r/wallstreetbets/comments/%d/", i),
			CreatedUTC:  float64(now.Add(-time.Duration(i+1) * 30 * time.Minute).Unix()),
			Score:       100 * (i + 1),
			NumComments: 10 * (i + 1),
		}
	}
	// pinned threads are skipped by the client
	posts[count-1].Stickied = true
	return posts
}

func generateDefaultTweets(count int, now time.Time) []Tweet {
	texts := []string{
		"$AAPL breaking out, very bullish",
		"Selling everything, recession incoming",
		"Earnings beat across the board today",
	}
	tweets := make([]Tweet, count)
	for i := range count {
		tweets[i] = Tweet{
			ID:        strconv.Itoa(1800000000000000000 + i),
			Text:      fmt.Sprintf("%s %d", texts[i%len(texts)], i),
			AuthorID:  strconv.Itoa(1000 + i),
			CreatedAt: now.Add(-time.Duration(i+1) * 20 * time.Minute).Format(time.RFC3339),
			PublicMetrics: map[string]int{
				"like_count": 10 * i, "retweet_count": i, "reply_count": 2, "quote_count": 0,
			},
		}
	}
	return tweets
}
