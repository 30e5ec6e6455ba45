package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"market-sentiment/config"
	"market-sentiment/fetch"
	"market-sentiment/internal/app"
	"market-sentiment/models"
	"market-sentiment/observability"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
	now func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg, now: time.Now}
}

// reasonMessages are the metadata.error texts per fallback reason.
var reasonMessages = map[fetch.FallbackReason]string{
	fetch.ReasonNotConfigured:  "no upstream provider configured; serving synthetic data",
	fetch.ReasonUpstreamFailed: "upstream providers unavailable; serving synthetic data",
	fetch.ReasonPartial:        "some upstream data unavailable; response is partially synthetic",
	fetch.ReasonInternalError:  "internal error while building the response; serving synthetic data",
}

// ErrorText renders a fallback reason for metadata.error.
func ErrorText(reason fetch.FallbackReason) string {
	if reason == fetch.ReasonNone {
		return ""
	}
	if msg, ok := reasonMessages[reason]; ok {
		return msg
	}
	return string(reason)
}

// respond runs resolve and writes its payload as a 200 JSON envelope. A
// panic anywhere in resolve is recovered and answered with the mock payload
// instead, so a data problem never becomes an error status.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, endpoint string, params any,
	resolve func(ctx context.Context) (models.Payload, app.Resolution), mock func() models.Payload) {

	payload, res := h.guard(r.Context(), endpoint, resolve, mock)

	meta := payload.Meta()
	meta.Timestamp = h.now().UTC()
	meta.DataQuality = res.Quality
	meta.Error = ErrorText(res.Reason)
	meta.Sources = res.Sources
	if meta.Sources == nil {
		meta.Sources = []string{}
	}
	meta.RequestID = RequestIDFromContext(r.Context())
	if params != nil {
		meta.Params = echo(params)
	}

	observability.GetMetrics().RecordResponseQuality(endpoint, string(res.Quality))
	h.jsonResponse(w, payload)
}

func (h *Handler) guard(ctx context.Context, endpoint string,
	resolve func(ctx context.Context) (models.Payload, app.Resolution), mock func() models.Payload) (payload models.Payload, res app.Resolution) {

	defer func() {
		if rec := recover(); rec != nil {
			observability.GetMetrics().RecordPanic(endpoint)
			observability.WithError(fmt.Errorf("%w: %v", fetch.ErrPanic, rec)).
				Error("handler panicked, serving synthetic data", "endpoint", endpoint)
			payload = mock()
			res = app.Resolution{
				Quality: models.QualityMock,
				Reason:  fetch.ReasonInternalError,
				Sources: []string{fetch.SourceSynthetic},
			}
		}
	}()

	return resolve(ctx)
}

// HandleHealth reports provider configuration and circuit breaker state
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "health", nil,
		func(context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.Health()
			return resp, res
		},
		func() models.Payload {
			return &models.HealthResponse{Status: "ok", Mode: "synthetic", Providers: []models.ProviderStatus{}}
		},
	)
}

// HandleNews returns scored market news
func (h *Handler) HandleNews(w http.ResponseWriter, r *http.Request) {
	var p NewsParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "news", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.News(ctx, p.Query, p.Limit, p.Hours)
			return resp, res
		},
		func() models.Payload { return h.app.MockNews(p.Query, p.Limit, p.Hours) },
	)
}

// HandleEuropeanNews returns scored European business news
func (h *Handler) HandleEuropeanNews(w http.ResponseWriter, r *http.Request) {
	var p EuropeanNewsParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "news_europe", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.EuropeanNews(ctx, p.Country, p.Limit, p.Hours)
			return resp, res
		},
		func() models.Payload { return h.app.MockEuropeanNews(p.Country, p.Limit, p.Hours) },
	)
}

// HandleSocial returns scored social posts
func (h *Handler) HandleSocial(w http.ResponseWriter, r *http.Request) {
	var p SocialParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "social", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.Social(ctx, p.Platform, p.Query, p.Limit)
			return resp, res
		},
		func() models.Payload { return h.app.MockSocial(p.Platform, p.Query, p.Limit) },
	)
}

// HandleStocks returns quotes, profiles and optional technicals per symbol
func (h *Handler) HandleStocks(w http.ResponseWriter, r *http.Request) {
	var p StocksParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "stocks", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.Stocks(ctx, p.Symbols, p.Technicals)
			return resp, res
		},
		func() models.Payload { return h.app.MockStocks(p.Symbols, p.Technicals) },
	)
}

// HandleCorrelation returns stock/macro return correlations
func (h *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	var p CorrelationParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "correlation", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.Correlation(ctx, p.Symbols, p.Period)
			return resp, res
		},
		func() models.Payload { return h.app.MockCorrelation(p.Symbols, p.Period) },
	)
}

// HandleMacro returns a macro indicator series
func (h *Handler) HandleMacro(w http.ResponseWriter, r *http.Request) {
	var p MacroParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "macro", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.Macro(ctx, p.Metric, p.Period)
			return resp, res
		},
		func() models.Payload { return h.app.MockMacro(p.Metric, p.Period) },
	)
}

// HandleShillerPE returns the Shiller P/E valuation and forecast
func (h *Handler) HandleShillerPE(w http.ResponseWriter, r *http.Request) {
	var p ShillerPEParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "shiller_pe", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.ShillerPE(ctx, p.Period)
			return resp, res
		},
		func() models.Payload { return h.app.MockShillerPE(p.Period) },
	)
}

// HandleSentiment returns blended news and social sentiment
func (h *Handler) HandleSentiment(w http.ResponseWriter, r *http.Request) {
	var p SentimentParams
	if err := bind(r.URL.Query(), &p); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "sentiment", &p,
		func(ctx context.Context) (models.Payload, app.Resolution) {
			resp, res := h.app.Sentiment(ctx, p.Query, p.Limit)
			return resp, res
		},
		func() models.Payload { return h.app.MockSentiment(p.Query, p.Limit) },
	)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.WithError(err).Warn("failed to encode response")
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
