package api

import (
	"net/http"

	"market-sentiment/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Handlers recover their own panics into synthetic payloads; Recoverer
	// only catches what escapes them.
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(MetricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)

		r.Get("/news", h.HandleNews)
		r.Get("/news/europe", h.HandleEuropeanNews)
		r.Get("/social", h.HandleSocial)
		r.Get("/sentiment", h.HandleSentiment)

		r.Get("/stocks", h.HandleStocks)
		r.Get("/correlation", h.HandleCorrelation)
		r.Get("/macro", h.HandleMacro)
		r.Get("/valuation/shiller-pe", h.HandleShillerPE)
	})

	return r
}
