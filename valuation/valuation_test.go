package valuation

import (
	"testing"

	"market-sentiment/models"

	"github.com/stretchr/testify/assert"
)

func TestForecast_AtPivot(t *testing.T) {
	got := Forecast(25)

	assert.Equal(t, models.ReturnBand{Expected: 7, Low: -13, High: 22}, got.ExpectedReturns.OneYear)
	assert.Equal(t, models.ReturnBand{Expected: 7, Low: 2, High: 12}, got.ExpectedReturns.FiveYear)
	assert.Equal(t, models.ReturnBand{Expected: 7, Low: 4, High: 10}, got.ExpectedReturns.TenYear)

	assert.Equal(t, 30.0, got.CorrectionProbability.TenPercent)
	assert.Equal(t, 12.5, got.CorrectionProbability.TwentyPercent)
	assert.Equal(t, 2.0, got.CorrectionProbability.ThirtyPercent)
}

func TestForecast_Expensive(t *testing.T) {
	got := Forecast(35)

	// impact = -3
	assert.InDelta(t, 4.0, got.ExpectedReturns.OneYear.Expected, 1e-9)
	assert.InDelta(t, 4.9, got.ExpectedReturns.FiveYear.Expected, 1e-9)
	assert.InDelta(t, 5.5, got.ExpectedReturns.TenYear.Expected, 1e-9)

	assert.Equal(t, 60.0, got.CorrectionProbability.TenPercent)
	assert.Equal(t, 37.5, got.CorrectionProbability.TwentyPercent)
	assert.Equal(t, 20.0, got.CorrectionProbability.ThirtyPercent)
}

func TestForecast_Clamps(t *testing.T) {
	cheap := Forecast(5)
	assert.Equal(t, 10.0, cheap.CorrectionProbability.TenPercent)
	assert.Equal(t, 5.0, cheap.CorrectionProbability.TwentyPercent)
	assert.Equal(t, 2.0, cheap.CorrectionProbability.ThirtyPercent)

	extreme := Forecast(80)
	assert.Equal(t, 90.0, extreme.CorrectionProbability.TenPercent)
	assert.Equal(t, 70.0, extreme.CorrectionProbability.TwentyPercent)
	assert.Equal(t, 50.0, extreme.CorrectionProbability.ThirtyPercent)
}

func TestForecast_OneDecimalRounding(t *testing.T) {
	got := Forecast(31.37)

	// impact = -1.911
	assert.Equal(t, 5.1, got.ExpectedReturns.OneYear.Expected)
	assert.Equal(t, 5.7, got.ExpectedReturns.FiveYear.Expected)
	assert.Equal(t, 6.0, got.ExpectedReturns.TenYear.Expected)
}

func TestStatistics(t *testing.T) {
	history := []float64{10, 15, 20, 25, 30}

	got := Statistics(30, history)

	assert.Equal(t, 20.0, got.HistoricalAverage)
	assert.Equal(t, 20.0, got.HistoricalMedian)
	assert.Equal(t, 100.0, got.CurrentPercentile)
	assert.Equal(t, 7.07, got.StandardDeviation)
	assert.Equal(t, 10.0, got.MinValue)
	assert.Equal(t, 30.0, got.MaxValue)
	assert.Equal(t, models.ValuationSignificantlyOvervalued, got.Valuation)
	assert.Equal(t, 50.0, got.DeviationFromMean)
}

func TestStatistics_EveryLabel(t *testing.T) {
	// mean 20, population sd 4
	history := []float64{16, 24, 16, 24}

	tests := []struct {
		current float64
		want    string
	}{
		{29, models.ValuationExtremelyOvervalued},
		{25, models.ValuationSignificantlyOvervalued},
		{22.5, models.ValuationModeratelyOvervalued},
		{20, models.ValuationFairValue},
		{15, models.ValuationUndervalued},
		{11, models.ValuationSignificantlyUndervalued},
	}
	for _, tt := range tests {
		got := Statistics(tt.current, history)
		assert.Equal(t, tt.want, got.Valuation, "current %v", tt.current)
	}
}

func TestStatistics_EmptyHistory(t *testing.T) {
	got := Statistics(30, nil)

	assert.Equal(t, 0.0, got.HistoricalAverage)
	assert.Equal(t, 0.0, got.CurrentPercentile)
	assert.Equal(t, 0.0, got.DeviationFromMean)
}

func TestValues(t *testing.T) {
	points := []models.CAPEPoint{{Value: 1.5}, {Value: 2.5}}
	assert.Equal(t, []float64{1.5, 2.5}, Values(points))
}
