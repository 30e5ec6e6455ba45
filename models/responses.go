package models

// NewsResponse is returned by the news endpoints
type NewsResponse struct {
	Data     []Article        `json:"data"`
	Metrics  SentimentMetrics `json:"metrics"`
	Topics   []Topic          `json:"topics"`
	Metadata Metadata         `json:"metadata"`
}

func (r *NewsResponse) Meta() *Metadata { return &r.Metadata }

// TrendingTicker is a cashtag mentioned across social posts
type TrendingTicker struct {
	Symbol           string  `json:"symbol"`
	Mentions         int     `json:"mentions"`
	AverageSentiment float64 `json:"averageSentiment"`
}

// SocialResponse is returned by the social endpoint
type SocialResponse struct {
	Data      []Post                        `json:"data"`
	Metrics   SentimentMetrics              `json:"metrics"`
	Platforms map[Platform]SentimentMetrics `json:"platforms"`
	Trending  []TrendingTicker              `json:"trending"`
	Topics    []Topic                       `json:"topics"`
	Metadata  Metadata                      `json:"metadata"`
}

func (r *SocialResponse) Meta() *Metadata { return &r.Metadata }

// StocksResponse is returned by the stocks endpoint
type StocksResponse struct {
	Data     []StockSnapshot `json:"data"`
	Summary  MarketSummary   `json:"summary"`
	Metadata Metadata        `json:"metadata"`
}

func (r *StocksResponse) Meta() *Metadata { return &r.Metadata }

// CorrelationResponse is returned by the correlation endpoint
type CorrelationResponse struct {
	Data     []Correlation      `json:"data"`
	Summary  CorrelationSummary `json:"summary"`
	Metadata Metadata           `json:"metadata"`
}

func (r *CorrelationResponse) Meta() *Metadata { return &r.Metadata }

// MacroResponse is returned by the macro endpoint
type MacroResponse struct {
	Indicator  MacroIndicator   `json:"indicator"`
	Data       []Observation    `json:"data"`
	Statistics SeriesStatistics `json:"statistics"`
	Latest     *Observation     `json:"latest,omitempty"`
	Change     float64          `json:"change"`
	Metadata   Metadata         `json:"metadata"`
}

func (r *MacroResponse) Meta() *Metadata { return &r.Metadata }

// ShillerPEResponse is returned by the valuation endpoint
type ShillerPEResponse struct {
	Current    float64             `json:"current"`
	Statistics ValuationStatistics `json:"statistics"`
	Forecast   ValuationForecast   `json:"forecast"`
	History    []CAPEPoint         `json:"history"`
	Metadata   Metadata            `json:"metadata"`
}

func (r *ShillerPEResponse) Meta() *Metadata { return &r.Metadata }

// OverallSentiment blends news and social scores
type OverallSentiment struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// SentimentResponse is returned by the aggregate sentiment endpoint
type SentimentResponse struct {
	Overall  OverallSentiment `json:"overall"`
	News     SentimentMetrics `json:"news"`
	Social   SentimentMetrics `json:"social"`
	Topics   []Topic          `json:"topics"`
	Metadata Metadata         `json:"metadata"`
}

func (r *SentimentResponse) Meta() *Metadata { return &r.Metadata }

// ProviderStatus reports configuration and breaker state for one upstream
type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Breaker    string `json:"breaker"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string           `json:"status"`
	Mode      string           `json:"mode"`
	Providers []ProviderStatus `json:"providers"`
	Metadata  Metadata         `json:"metadata"`
}

func (r *HealthResponse) Meta() *Metadata { return &r.Metadata }
