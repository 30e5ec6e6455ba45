// Package app resolves the dashboard datasets. Every operation returns a
// complete payload together with a Resolution describing where the data
// came from; upstream failures degrade to synthetic data instead of
// surfacing as errors.
package app

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"market-sentiment/config"
	"market-sentiment/fetch"
	"market-sentiment/mockdata"
	"market-sentiment/models"
	"market-sentiment/observability"
	"market-sentiment/services"
)

// Resolution describes the provenance of an operation's payload.
type Resolution struct {
	Quality models.DataQuality
	Reason  fetch.FallbackReason
	Sources []string
}

// resolutionOf combines sub-resolutions: the quality is combined, the
// reason follows the combined quality and sources are merged.
func resolutionOf(parts ...Resolution) Resolution {
	qualities := make([]models.DataQuality, len(parts))
	reasons := make([]fetch.FallbackReason, len(parts))
	var sources []string
	for i, p := range parts {
		qualities[i] = p.Quality
		reasons[i] = p.Reason
		sources = append(sources, p.Sources...)
	}
	q := fetch.Combine(qualities...)
	return Resolution{Quality: q, Reason: fetch.ReasonFor(q, reasons...), Sources: uniqueSources(sources)}
}

// resultResolution describes a single fetch result. Sources are sorted the
// same way as for combined resolutions.
func resultResolution[T any](r fetch.Result[T]) Resolution {
	return Resolution{Quality: r.Quality, Reason: r.Reason, Sources: uniqueSources(splitSources(r.Source))}
}

// synthetic describes a payload produced entirely by the generator.
func synthetic(reason fetch.FallbackReason) Resolution {
	return Resolution{Quality: models.QualityMock, Reason: reason, Sources: []string{fetch.SourceSynthetic}}
}

func splitSources(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "+")
}

func uniqueSources(sources []string) []string {
	out := lo.Uniq(lo.Compact(sources))
	slices.Sort(out)
	return out
}

// App holds the dashboard dependencies
type App struct {
	cfg       *config.Config
	providers Providers
	breakers  *services.CircuitBreakerRegistry
	mock      *mockdata.Generator
	now       func() time.Time
}

// New creates an App over explicit providers, for tests and custom wiring.
func New(cfg *config.Config, providers Providers, breakers *services.CircuitBreakerRegistry, mock *mockdata.Generator) *App {
	if mock == nil {
		mock = mockdata.NewRandom()
	}
	return &App{
		cfg:       cfg,
		providers: providers,
		breakers:  breakers,
		mock:      mock,
		now:       time.Now,
	}
}

// NewFromConfig builds every upstream client, breaker and limiter from
// configuration.
func NewFromConfig(cfg *config.Config) *App {
	cb := cfg.CircuitBreaker
	breakers := services.NewCircuitBreakerRegistry(services.CircuitBreakerConfig{
		MaxRequests:  cb.MaxRequests,
		Interval:     cb.Interval,
		Timeout:      cb.Timeout,
		MinRequests:  cb.MinRequests,
		FailureRatio: cb.FailureRatio,
	})

	hc := &http.Client{Timeout: cfg.Timeouts.History}
	providers := NewProviders(cfg, breakers, hc)

	mock := mockdata.NewRandom()
	if cfg.Mock.Seed != 0 {
		mock = mockdata.New(cfg.Mock.Seed)
	}

	configured := cfg.ConfiguredProviders()
	names := lo.Keys(configured)
	slices.Sort(names)
	observability.Info("providers configured",
		"configured", lo.Filter(names, func(n string, _ int) bool { return configured[n] }),
		"synthetic_seeded", cfg.Mock.Seed != 0,
	)

	return New(cfg, providers, breakers, mock)
}

// WithClock overrides the time source used for date windows, for tests.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	a.mock.WithClock(now)
	return a
}

// Generator returns the synthetic data generator.
func (a *App) Generator() *mockdata.Generator {
	return a.mock
}

// Health reports provider configuration and breaker state.
func (a *App) Health() (*models.HealthResponse, Resolution) {
	configured := a.cfg.ConfiguredProviders()
	names := lo.Keys(configured)
	slices.Sort(names)

	statuses := make([]models.ProviderStatus, 0, len(names))
	live := 0
	for _, name := range names {
		state := "closed"
		if a.breakers != nil {
			state = a.breakers.State(name)
		}
		if configured[name] {
			live++
		}
		statuses = append(statuses, models.ProviderStatus{
			Name:       name,
			Configured: configured[name],
			Breaker:    state,
		})
	}

	quality := fetch.QualityOf(live, len(names))
	mode := "live"
	switch quality {
	case models.QualityMock:
		mode = "synthetic"
	case models.QualityMixed:
		mode = "partial"
	}

	res := Resolution{Quality: quality, Reason: fetch.ReasonFor(quality, fetch.ReasonNotConfigured)}
	for _, s := range statuses {
		if s.Configured {
			res.Sources = append(res.Sources, s.Name)
		}
	}

	return &models.HealthResponse{
		Status:    "ok",
		Mode:      mode,
		Providers: statuses,
	}, res
}

// settled converts a branch outcome carrying a fetch result into the result,
// treating a recovered panic as an internal error with fallback data.
func settled[T any](o fetch.Outcome[fetch.Result[T]], fallback func() T) fetch.Result[T] {
	if o.OK() {
		return o.Value
	}
	observability.WithError(o.Err).Error("dataset branch panicked, using synthetic data")
	return fetch.SyntheticResult(fallback(), fetch.ReasonInternalError, o.Err)
}
