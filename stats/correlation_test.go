package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPearson(t *testing.T) {
	series := []float64{1.5, 2.0, 0.5, 3.25, 4.0, 2.75}
	negated := make([]float64, len(series))
	for i, v := range series {
		negated[i] = -v
	}

	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"self", series, series, 1},
		{"negation", series, negated, -1},
		{"linear transform", []float64{1, 2, 3}, []float64{10, 20, 30}, 1},
		{"single point", []float64{1}, []float64{2}, 0},
		{"empty", nil, nil, 0},
		{"constant series", []float64{1, 2, 3}, []float64{5, 5, 5}, 0},
		{"uses shorter length", []float64{1, 2, 3, 100}, []float64{2, 4, 6}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Pearson(tt.x, tt.y), 1e-9)
		})
	}
}

func TestPearson_Range(t *testing.T) {
	x := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	y := []float64{2, 7, 1, 8, 2, 8, 1, 8}
	r := Pearson(x, y)
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestReturns(t *testing.T) {
	got := Returns([]float64{100, 110, 99, 0, 50})

	assert.Len(t, got, 4)
	assert.InDelta(t, 0.10, got[0], 1e-9)
	assert.InDelta(t, -0.10, got[1], 1e-9)
	assert.InDelta(t, -1.0, got[2], 1e-9)
	assert.Equal(t, 0.0, got[3], "zero previous price yields 0")

	assert.Nil(t, Returns([]float64{100}))
	assert.Nil(t, Returns(nil))
}

func TestCorrelationStrength(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.95, "Very Strong"},
		{-0.7, "Very Strong"},
		{0.55, "Strong"},
		{-0.5, "Strong"},
		{0.3, "Moderate"},
		{-0.15, "Weak"},
		{0.1, "Weak"},
		{0.05, "Very Weak"},
		{0, "Very Weak"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CorrelationStrength(tt.r), "CorrelationStrength(%v)", tt.r)
	}
}

func TestValuationLabel_AllBucketsReachable(t *testing.T) {
	const mean, sd = 20.0, 5.0

	tests := []struct {
		v    float64
		want string
	}{
		{31, "Extremely Overvalued"},
		{26, "Significantly Overvalued"},
		{23, "Moderately Overvalued"},
		{20, "Fair Value"},
		{22.5, "Fair Value"},
		{17, "Fair Value"},
		{14, "Undervalued"},
		{9, "Significantly Undervalued"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValuationLabel(tt.v, mean, sd), "ValuationLabel(%v)", tt.v)
	}
}
