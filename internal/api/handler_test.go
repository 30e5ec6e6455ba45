package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"market-sentiment/config"
	"market-sentiment/fetch"
	"market-sentiment/internal/app"
	"market-sentiment/mockdata"
	"market-sentiment/models"
)

var fixedNow = time.Date(2026, time.March, 2, 15, 0, 0, 0, time.UTC)

// testConfig returns a configuration with no credentials, so every dataset
// resolves synthetically without network calls.
func testConfig() *config.Config {
	cfg := config.NewTestConfig()
	cfg.Multpl.Enabled = false
	return cfg
}

func testHandler() *Handler {
	cfg := testConfig()
	a := app.New(cfg, app.Providers{}, nil, mockdata.New(3)).WithClock(func() time.Time { return fixedNow })
	h := NewHandler(a, cfg)
	h.now = func() time.Time { return fixedNow }
	return h
}

func testRouter() http.Handler {
	h := testHandler()
	return NewRouter(h, h.cfg)
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Metadata models.Metadata `json:"metadata"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v\n%s", err, w.Body.String())
	}
	return env
}

func TestHandler_EndpointsServeSyntheticEnvelope(t *testing.T) {
	router := testRouter()

	tests := []struct {
		name    string
		target  string
		dataKey string
	}{
		{"news", "/api/news", "data"},
		{"europe news", "/api/news/europe?country=de", "data"},
		{"social", "/api/social?platform=reddit", "platforms"},
		{"stocks", "/api/stocks?symbols=aapl,msft&technicals=true", "summary"},
		{"correlation", "/api/correlation?symbols=SPY&period=1m", "summary"},
		{"macro", "/api/macro?metric=cpi&period=5y", "statistics"},
		{"shiller pe", "/api/valuation/shiller-pe?period=10y", "forecast"},
		{"sentiment", "/api/sentiment?query=tech", "overall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.target)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}

			var body map[string]json.RawMessage
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if _, ok := body[tt.dataKey]; !ok {
				t.Errorf("expected payload key %q in %s", tt.dataKey, w.Body.String())
			}

			meta := decodeEnvelope(t, w).Metadata
			if meta.DataQuality != models.QualityMock {
				t.Errorf("expected dataQuality mock, got %q", meta.DataQuality)
			}
			if meta.Error == "" {
				t.Error("expected metadata.error for synthetic data")
			}
			if !meta.Timestamp.Equal(fixedNow) {
				t.Errorf("expected timestamp %v, got %v", fixedNow, meta.Timestamp)
			}
			if _, err := uuid.Parse(meta.RequestID); err != nil {
				t.Errorf("expected UUID requestId, got %q", meta.RequestID)
			}
			if len(meta.Sources) != 1 || meta.Sources[0] != "synthetic" {
				t.Errorf("expected sources [synthetic], got %v", meta.Sources)
			}
		})
	}
}

func TestHandler_StocksNormalizesSymbols(t *testing.T) {
	w := get(t, testRouter(), "/api/stocks?symbols=aapl,%20msft,,AAPL")

	var resp models.StocksResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(resp.Data))
	}
	if resp.Data[0].Symbol != "AAPL" || resp.Data[1].Symbol != "MSFT" {
		t.Errorf("unexpected symbols %s, %s", resp.Data[0].Symbol, resp.Data[1].Symbol)
	}
	if resp.Data[0].Technicals != nil {
		t.Error("technicals should be omitted unless requested")
	}
	if got := resp.Metadata.Params["symbols"]; got == nil {
		t.Error("expected symbols echoed in metadata.params")
	}
}

func TestHandler_Defaults(t *testing.T) {
	w := get(t, testRouter(), "/api/news")

	var resp models.NewsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Metadata.Params["query"] != "stock market" {
		t.Errorf("expected default query, got %v", resp.Metadata.Params["query"])
	}
	if resp.Metadata.Params["limit"] != float64(20) {
		t.Errorf("expected default limit 20, got %v", resp.Metadata.Params["limit"])
	}
	if len(resp.Data) > 20 {
		t.Errorf("expected at most 20 articles, got %d", len(resp.Data))
	}
}

func TestHandler_InvalidParams(t *testing.T) {
	router := testRouter()

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"limit not a number", "/api/news?limit=abc", "limit must be an integer"},
		{"limit too large", "/api/news?limit=500", "limit must be at most 100"},
		{"hours too small", "/api/news?hours=0", "hours must be at least 1"},
		{"unknown country", "/api/news/europe?country=xx", "country must be one of"},
		{"unknown platform", "/api/social?platform=myspace", "platform must be one of"},
		{"too many symbols", "/api/stocks?symbols=A,B,C,D,E,F,G,H,I,J,K", "symbols must list at most 10"},
		{"bad symbol", "/api/stocks?symbols=AAPL,$$$", "invalid symbol"},
		{"bad technicals flag", "/api/stocks?technicals=maybe", "technicals must be a boolean"},
		{"bad correlation period", "/api/correlation?period=5y", "period must be one of"},
		{"unknown metric", "/api/macro?metric=gold", "metric must be one of"},
		{"bad cape period", "/api/valuation/shiller-pe?period=1y", "period must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.target)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if !strings.Contains(body["error"], tt.message) {
				t.Errorf("expected error containing %q, got %q", tt.message, body["error"])
			}
		})
	}
}

func TestHandler_PanicServesMockPayload(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	w := httptest.NewRecorder()

	h.respond(w, req, "news", nil,
		func(context.Context) (models.Payload, app.Resolution) {
			panic("boom")
		},
		func() models.Payload { return h.app.MockNews("stocks", 5, 24) },
	)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 after panic, got %d", w.Code)
	}
	var resp models.NewsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) == 0 {
		t.Error("expected a complete synthetic payload")
	}
	if resp.Metadata.DataQuality != models.QualityMock {
		t.Errorf("expected mock quality, got %q", resp.Metadata.DataQuality)
	}
	if resp.Metadata.Error != ErrorText("internal_error") {
		t.Errorf("expected internal error text, got %q", resp.Metadata.Error)
	}
}

func TestHandler_Health(t *testing.T) {
	w := get(t, testRouter(), "/api/health")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if resp.Mode != "synthetic" {
		t.Errorf("expected synthetic mode, got %q", resp.Mode)
	}
	if len(resp.Providers) == 0 {
		t.Error("expected provider statuses")
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/news", nil)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestHandler_MetricsEndpoint(t *testing.T) {
	router := testRouter()
	get(t, router, "/api/news")

	w := get(t, router, "/metrics")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "market_sentiment_") {
		t.Error("expected application metrics in exposition")
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		reason string
		empty  bool
	}{
		{"", true},
		{"not_configured", false},
		{"upstream_failed", false},
		{"partial", false},
		{"internal_error", false},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			got := ErrorText(fetch.FallbackReason(tt.reason))
			if (got == "") != tt.empty {
				t.Errorf("ErrorText(%q) = %q", tt.reason, got)
			}
		})
	}
}
