package stats

// Indicator periods used for computed technicals.
const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// MACDResult is the latest MACD reading
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MinMACDPoints is the shortest series for which MACD is meaningful.
const MinMACDPoints = MACDSlowPeriod + MACDSignalPeriod - 1

// SMA computes the simple moving average of the last period prices.
// It returns 0 when there are fewer than period prices.
func SMA(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period {
		return 0
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period)
}

// EMA computes the exponential moving average series, seeded with the SMA of
// the first period prices. Values before the seed echo the input.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return prices
	}

	ema := make([]float64, len(prices))
	multiplier := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
		ema[i] = prices[i]
	}
	ema[period-1] = sum / float64(period)

	for i := period; i < len(prices); i++ {
		ema[i] = (prices[i]-ema[i-1])*multiplier + ema[i-1]
	}

	return ema
}

// RSI computes the Relative Strength Index over the last period changes.
// Too little data yields a neutral 50.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50.0
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := prices[len(prices)-i] - prices[len(prices)-i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD computes the 12/26/9 MACD at the end of the series.
func MACD(prices []float64) MACDResult {
	if len(prices) == 0 {
		return MACDResult{}
	}

	fast := EMA(prices, MACDFastPeriod)
	slow := EMA(prices, MACDSlowPeriod)

	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = fast[i] - slow[i]
	}
	signal := EMA(line, MACDSignalPeriod)

	last := len(prices) - 1
	return MACDResult{
		MACD:      line[last],
		Signal:    signal[last],
		Histogram: line[last] - signal[last],
	}
}
