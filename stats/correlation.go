package stats

import "math"

// Pearson returns the correlation coefficient of x and y over their common
// prefix. Fewer than two points or a zero variance yields 0.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n < 2 {
		return 0
	}
	x, y = x[:n], y[:n]

	mx, my := Mean(x), Mean(y)
	var cov, vx, vy float64
	for i := range n {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}

	den := math.Sqrt(vx * vy)
	if den == 0 {
		return 0
	}
	return Clamp(cov/den, -1, 1)
}

// Returns converts a price series into simple period-over-period returns.
// A zero previous price yields a 0 return for that step.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		out[i-1] = (prices[i] - prev) / prev
	}
	return out
}

// CorrelationStrength labels the magnitude of a correlation coefficient.
func CorrelationStrength(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.7:
		return "Very Strong"
	case a >= 0.5:
		return "Strong"
	case a >= 0.3:
		return "Moderate"
	case a >= 0.1:
		return "Weak"
	default:
		return "Very Weak"
	}
}

// ValuationLabel places v relative to a historical mean and standard
// deviation. The extreme bands on each side are checked before the milder
// ones so every label is reachable.
func ValuationLabel(v, mean, sd float64) string {
	switch {
	case v > mean+2*sd:
		return "Extremely Overvalued"
	case v > mean+sd:
		return "Significantly Overvalued"
	case v > mean+0.5*sd:
		return "Moderately Overvalued"
	case v < mean-2*sd:
		return "Significantly Undervalued"
	case v < mean-sd:
		return "Undervalued"
	default:
		return "Fair Value"
	}
}
