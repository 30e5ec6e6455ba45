package models

import "time"

// Valuation labels for a ratio relative to its own history.
const (
	ValuationExtremelyOvervalued      = "Extremely Overvalued"
	ValuationSignificantlyOvervalued  = "Significantly Overvalued"
	ValuationModeratelyOvervalued     = "Moderately Overvalued"
	ValuationFairValue                = "Fair Value"
	ValuationUndervalued              = "Undervalued"
	ValuationSignificantlyUndervalued = "Significantly Undervalued"
)

// ValuationStatistics places a current ratio within its historical distribution.
type ValuationStatistics struct {
	HistoricalAverage float64 `json:"historicalAverage"`
	HistoricalMedian  float64 `json:"historicalMedian"`
	CurrentPercentile float64 `json:"currentPercentile"`
	StandardDeviation float64 `json:"standardDeviation"`
	MinValue          float64 `json:"minValue"`
	MaxValue          float64 `json:"maxValue"`
	Valuation         string  `json:"valuation"`
	DeviationFromMean float64 `json:"deviationFromMean"`
}

// ReturnBand is an expected annualized return with a low/high range, in percent.
type ReturnBand struct {
	Expected float64 `json:"expected"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
}

// ExpectedReturns holds return bands per horizon
type ExpectedReturns struct {
	OneYear  ReturnBand `json:"oneYear"`
	FiveYear ReturnBand `json:"fiveYear"`
	TenYear  ReturnBand `json:"tenYear"`
}

// CorrectionProbability holds drawdown probabilities in percent
type CorrectionProbability struct {
	TenPercent    float64 `json:"tenPercent"`
	TwentyPercent float64 `json:"twentyPercent"`
	ThirtyPercent float64 `json:"thirtyPercent"`
}

// ValuationForecast is derived from a single valuation ratio.
type ValuationForecast struct {
	ExpectedReturns       ExpectedReturns       `json:"expectedReturns"`
	CorrectionProbability CorrectionProbability `json:"correctionProbability"`
}

// CAPEPoint is one monthly Shiller P/E reading
type CAPEPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
