// Package mockdata generates synthetic payloads used when no upstream
// provider can serve a dataset. Field shapes are fixed; numeric fields are
// randomized from an injectable source so tests can seed it.
package mockdata

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"market-sentiment/models"

	"github.com/shopspring/decimal"
)

// Generator produces synthetic market data. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New returns a generator with a reproducible sequence for seed.
func New(seed uint64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
}

// NewRandom returns a generator seeded from the runtime's random source.
func NewRandom() *Generator {
	return New(rand.Uint64())
}

// WithClock overrides the time source, for tests.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) float(lo, hi float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) intn(n int) int {
	if n <= 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

func (g *Generator) norm() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.NormFloat64()
}

func pick[T any](g *Generator, items []T) T {
	return items[g.intn(len(items))]
}

var basePrices = map[string]float64{
	"AAPL": 190, "MSFT": 420, "GOOGL": 170, "GOOG": 172, "AMZN": 180,
	"TSLA": 240, "META": 480, "NVDA": 880, "SPY": 520, "QQQ": 440,
	"DIA": 390, "IWM": 200, "JPM": 195, "V": 275, "NFLX": 620,
}

// BasePrice returns the reference price used for a symbol's synthetic data.
// Unknown symbols get a stable price derived from their name.
func BasePrice(symbol string) float64 {
	if p, ok := basePrices[strings.ToUpper(symbol)]; ok {
		return p
	}
	h := 0
	for _, r := range strings.ToUpper(symbol) {
		h = h*31 + int(r)
	}
	return 20 + float64(h%480)
}

// Quote returns a synthetic latest quote.
func (g *Generator) Quote(symbol string) models.Quote {
	base := BasePrice(symbol)
	prev := base * g.float(0.97, 1.03)
	changePct := g.float(-3, 3)
	price := prev * (1 + changePct/100)
	open := prev * g.float(0.99, 1.01)
	high := math.Max(price, open) * g.float(1, 1.015)
	low := math.Min(price, open) * g.float(0.985, 1)

	return models.Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         money(price),
		Change:        money(price - prev),
		ChangePercent: decimal.NewFromFloat(changePct).Round(2),
		Open:          money(open),
		High:          money(high),
		Low:           money(low),
		PreviousClose: money(prev),
		Volume:        int64(1_000_000 + g.intn(49_000_000)),
		Timestamp:     g.now().UTC(),
	}
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Technicals returns synthetic momentum indicators.
func (g *Generator) Technicals(symbol string) models.Technicals {
	base := BasePrice(symbol)
	rsi := math.Round(g.float(25, 75)*100) / 100
	macd := math.Round(g.float(-2, 2)*1000) / 1000
	signal := math.Round((macd+g.float(-0.5, 0.5))*1000) / 1000

	return models.Technicals{
		RSI:           rsi,
		MACD:          macd,
		MACDSignal:    signal,
		MACDHistogram: math.Round((macd-signal)*1000) / 1000,
		SMA20:         math.Round(base*g.float(0.97, 1.03)*100) / 100,
		SMA50:         math.Round(base*g.float(0.94, 1.06)*100) / 100,
		Signal:        models.RSISignal(rsi),
		Source:        "synthetic",
	}
}

// PriceHistory returns days daily closes ending today, oldest first.
func (g *Generator) PriceHistory(symbol string, days int) []models.PricePoint {
	if days <= 0 {
		return nil
	}
	today := truncateDay(g.now())
	price := BasePrice(symbol) * g.float(0.9, 1.1)

	out := make([]models.PricePoint, days)
	for i := range days {
		price *= 1 + g.norm()*0.015
		out[i] = models.PricePoint{
			Date:  today.AddDate(0, 0, i-days+1),
			Close: math.Round(price*100) / 100,
		}
	}
	return out
}

// MacroSeries returns a mean-reverting synthetic series for ind from since
// until now, spaced by the indicator's frequency.
func (g *Generator) MacroSeries(ind models.MacroIndicator, since time.Time) []models.Observation {
	var out []models.Observation
	value := ind.Typical * g.float(0.95, 1.05)
	for d := stepStart(since, ind.Frequency); !d.After(g.now()); d = step(d, ind.Frequency) {
		value += (ind.Typical-value)*0.05 + g.norm()*ind.Volatility
		if value < 0 {
			value = 0
		}
		out = append(out, models.Observation{Date: d, Value: math.Round(value*100) / 100})
	}
	return out
}

// CAPEHistory returns a monthly synthetic Shiller P/E history from since.
// The series trends upward and ends in the high twenties to mid thirties.
func (g *Generator) CAPEHistory(since time.Time) []models.CAPEPoint {
	start := stepStart(since, models.FrequencyMonthly)
	now := g.now()
	months := max(1, (now.Year()-start.Year())*12+int(now.Month()-start.Month())+1)

	out := make([]models.CAPEPoint, 0, months)
	d := start
	for i := range months {
		trend := 12 + 18*math.Pow(float64(i+1)/float64(months), 2)
		v := trend + g.norm()*1.5
		out = append(out, models.CAPEPoint{Date: d, Value: math.Round(math.Max(v, 4)*100) / 100})
		d = d.AddDate(0, 1, 0)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stepStart(t time.Time, freq string) time.Time {
	y, m, _ := t.UTC().Date()
	switch freq {
	case models.FrequencyMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case models.FrequencyQuarterly:
		q := (int(m)-1)/3*3 + 1
		return time.Date(y, time.Month(q), 1, 0, 0, 0, 0, time.UTC)
	default:
		return truncateDay(t)
	}
}

func step(t time.Time, freq string) time.Time {
	switch freq {
	case models.FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case models.FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
