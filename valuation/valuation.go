// Package valuation derives return forecasts and historical statistics from
// a valuation ratio such as the Shiller CAPE.
package valuation

import (
	"market-sentiment/models"
	"market-sentiment/stats"
)

const (
	baseReturn    = 7.0
	pivotRatio    = 25.0
	impactPerUnit = 0.3
)

// Forecast maps a valuation ratio to expected annualized returns and
// correction probabilities using a fixed linear model around a ratio of 25.
func Forecast(ratio float64) models.ValuationForecast {
	impact := (pivotRatio - ratio) * impactPerUnit

	oneYear := baseReturn + impact
	fiveYear := baseReturn + impact*0.7
	tenYear := baseReturn + impact*0.5

	return models.ValuationForecast{
		ExpectedReturns: models.ExpectedReturns{
			OneYear:  band(oneYear, 20, 15),
			FiveYear: band(fiveYear, 5, 5),
			TenYear:  band(tenYear, 3, 3),
		},
		CorrectionProbability: models.CorrectionProbability{
			TenPercent:    stats.Round(stats.Clamp(3*(ratio-15), 10, 90), 1),
			TwentyPercent: stats.Round(stats.Clamp(2.5*(ratio-20), 5, 70), 1),
			ThirtyPercent: stats.Round(stats.Clamp(2*(ratio-25), 2, 50), 1),
		},
	}
}

func band(expected, down, up float64) models.ReturnBand {
	return models.ReturnBand{
		Expected: stats.Round(expected, 1),
		Low:      stats.Round(expected-down, 1),
		High:     stats.Round(expected+up, 1),
	}
}

// Statistics places current within the distribution of history.
func Statistics(current float64, history []float64) models.ValuationStatistics {
	mean := stats.Mean(history)
	sd := stats.StdDev(history)

	deviation := 0.0
	if mean != 0 {
		deviation = (current - mean) / mean * 100
	}

	return models.ValuationStatistics{
		HistoricalAverage: stats.Round(mean, 2),
		HistoricalMedian:  stats.Round(stats.Median(history), 2),
		CurrentPercentile: stats.Round(stats.PercentileRank(current, history), 1),
		StandardDeviation: stats.Round(sd, 2),
		MinValue:          stats.Round(stats.Min(history), 2),
		MaxValue:          stats.Round(stats.Max(history), 2),
		Valuation:         stats.ValuationLabel(current, mean, sd),
		DeviationFromMean: stats.Round(deviation, 1),
	}
}

// Values extracts the ratio values from a CAPE history.
func Values(points []models.CAPEPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
