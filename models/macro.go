package models

import "time"

// MacroIndicator describes an economic time series and where to fetch it.
type MacroIndicator struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Frequency string `json:"frequency"`

	FREDSeries string `json:"-"`
	// AlphaVantageFunction is empty when Alpha Vantage has no equivalent.
	AlphaVantageFunction string `json:"-"`
	AlphaVantageInterval string `json:"-"`
	AlphaVantageMaturity string `json:"-"`

	// Typical level and per-step volatility for synthetic series.
	Typical    float64 `json:"-"`
	Volatility float64 `json:"-"`
}

// Observation frequencies
const (
	FrequencyDaily     = "daily"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
)

// MacroIndicators is the registry of supported macro series keyed by metric.
var MacroIndicators = map[string]MacroIndicator{
	"fed-funds": {
		Key: "fed-funds", Name: "Federal Funds Rate", Unit: "percent", Frequency: FrequencyDaily,
		FREDSeries: "DFF", AlphaVantageFunction: "FEDERAL_FUNDS_RATE", AlphaVantageInterval: "daily",
		Typical: 4.5, Volatility: 0.02,
	},
	"treasury-10y": {
		Key: "treasury-10y", Name: "10-Year Treasury Yield", Unit: "percent", Frequency: FrequencyDaily,
		FREDSeries: "DGS10", AlphaVantageFunction: "TREASURY_YIELD", AlphaVantageInterval: "daily", AlphaVantageMaturity: "10year",
		Typical: 4.2, Volatility: 0.05,
	},
	"cpi": {
		Key: "cpi", Name: "Consumer Price Index", Unit: "index", Frequency: FrequencyMonthly,
		FREDSeries: "CPIAUCSL", AlphaVantageFunction: "CPI", AlphaVantageInterval: "monthly",
		Typical: 310, Volatility: 0.8,
	},
	"unemployment": {
		Key: "unemployment", Name: "Unemployment Rate", Unit: "percent", Frequency: FrequencyMonthly,
		FREDSeries: "UNRATE", AlphaVantageFunction: "UNEMPLOYMENT",
		Typical: 4.0, Volatility: 0.1,
	},
	"gdp": {
		Key: "gdp", Name: "Real Gross Domestic Product", Unit: "billions of chained dollars", Frequency: FrequencyQuarterly,
		FREDSeries: "GDPC1", AlphaVantageFunction: "REAL_GDP", AlphaVantageInterval: "quarterly",
		Typical: 23000, Volatility: 120,
	},
	"oil": {
		Key: "oil", Name: "WTI Crude Oil", Unit: "dollars per barrel", Frequency: FrequencyDaily,
		FREDSeries: "DCOILWTICO", AlphaVantageFunction: "WTI", AlphaVantageInterval: "daily",
		Typical: 75, Volatility: 1.2,
	},
	"vix": {
		Key: "vix", Name: "CBOE Volatility Index", Unit: "index", Frequency: FrequencyDaily,
		FREDSeries: "VIXCLS", Typical: 16, Volatility: 0.9,
	},
	"dollar": {
		Key: "dollar", Name: "Trade Weighted U.S. Dollar Index", Unit: "index", Frequency: FrequencyDaily,
		FREDSeries: "DTWEXBGS", Typical: 122, Volatility: 0.3,
	},
}

// CorrelationIndicators are the macro series every symbol is correlated against.
var CorrelationIndicators = []string{"fed-funds", "treasury-10y", "oil", "dollar", "vix"}

// Observation is a single dated value of a macro series
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SeriesStatistics summarises a numeric series
type SeriesStatistics struct {
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	StandardDeviation float64 `json:"standardDeviation"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	LatestPercentile  float64 `json:"latestPercentile"`
}

// Correlation is the Pearson correlation between a stock's returns and a
// macro indicator's changes over the same dates.
type Correlation struct {
	Stock       string  `json:"stock"`
	Macro       string  `json:"macro"`
	MacroName   string  `json:"macroName"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
	DataPoints  int     `json:"dataPoints"`
}

// CorrelationSummary highlights the extremes of a correlation matrix
type CorrelationSummary struct {
	StrongestPositive *Correlation `json:"strongestPositive,omitempty"`
	StrongestNegative *Correlation `json:"strongestNegative,omitempty"`
	AverageAbsolute   float64      `json:"averageAbsolute"`
	Pairs             int          `json:"pairs"`
}
