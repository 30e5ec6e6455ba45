package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	if m.FallbacksTotal == nil {
		t.Error("FallbacksTotal is nil")
	}
	if m.ResponseQualityTotal == nil {
		t.Error("ResponseQualityTotal is nil")
	}
	if m.SentimentScores == nil {
		t.Error("SentimentScores is nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal is nil")
	}
	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal is nil")
	}
	if m.CircuitBreakerState == nil {
		t.Error("CircuitBreakerState is nil")
	}
}

func TestRecordFallback(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordFallback("news", "not_configured")
	m.RecordFallback("news", "not_configured")
	m.RecordFallback("quote", "upstream_failed")

	if got := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("news", "not_configured")); got != 2 {
		t.Errorf("news fallbacks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("quote", "upstream_failed")); got != 1 {
		t.Errorf("quote fallbacks = %v, want 1", got)
	}
}

func TestRecordResponseQuality(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordResponseQuality("stocks", "mixed")

	if got := testutil.ToFloat64(m.ResponseQualityTotal.WithLabelValues("stocks", "mixed")); got != 1 {
		t.Errorf("stocks mixed = %v, want 1", got)
	}
}

func TestRecordResolution(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordResolution("quote", "finnhub", "live")

	if got := testutil.ToFloat64(m.DatasetResolutionsTotal.WithLabelValues("quote", "finnhub", "live")); got != 1 {
		t.Errorf("resolutions = %v, want 1", got)
	}
}

func TestRecordSentimentScore(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordSentimentScore("news", 72)
	m.RecordSentimentScore("news", 30)

	if got := testutil.CollectAndCount(m.SentimentScores); got != 1 {
		t.Errorf("sentiment series = %d, want 1", got)
	}
}

func TestRecordExternalAPI(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordExternalAPIRequest("finnhub", "quote")
	m.RecordExternalAPIError("finnhub", "quote", "timeout")
	m.RecordExternalAPIDuration("finnhub", "quote", 20*time.Millisecond)

	if got := testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("finnhub", "quote")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ExternalAPIErrorsTotal.WithLabelValues("finnhub", "quote", "timeout")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordHTTPRequest("GET", "/api/news", "200", 10*time.Millisecond, 512)
	m.RecordHTTPRequest("GET", "/api/news", "200", 10*time.Millisecond, 512)

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/news", "200")); got != 2 {
		t.Errorf("http requests = %v, want 2", got)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.SetCircuitBreakerState("fred", 2)
	m.RecordCircuitBreakerTrip("fred")

	if got := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("fred")); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("fred")); got != 1 {
		t.Errorf("trips = %v, want 1", got)
	}
}

func TestTimer(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	timer := m.NewTimer()
	time.Sleep(5 * time.Millisecond)

	if timer.Duration() < 5*time.Millisecond {
		t.Errorf("Duration() = %v, want >= 5ms", timer.Duration())
	}
	timer.ObserveExternalAPI("fmp", "profile")
	timer.ObserveRateLimit("fmp")
}
