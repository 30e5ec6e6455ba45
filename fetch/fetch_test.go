package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"market-sentiment/models"
	"market-sentiment/observability"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting[T any](calls *atomic.Int32, v T, err error) func(context.Context) (T, error) {
	return func(context.Context) (T, error) {
		calls.Add(1)
		return v, err
	}
}

func hanging[T any](ctx context.Context) (T, error) {
	<-ctx.Done()
	var zero T
	return zero, ctx.Err()
}

func TestChain_NoCredentialsSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	chain := Chain[string]{
		Dataset: "quote",
		Providers: []Provider[string]{
			{Name: "a", Configured: false, Fetch: counting(&calls, "a", nil)},
			{Name: "b", Configured: false, Fetch: counting(&calls, "b", nil)},
		},
		Fallback: func() string { return "mock" },
	}

	res := chain.Run(context.Background())

	assert.Equal(t, int32(0), calls.Load(), "no provider should be called")
	assert.Equal(t, "mock", res.Value)
	assert.Equal(t, models.QualityMock, res.Quality)
	assert.Equal(t, ReasonNotConfigured, res.Reason)
	assert.ErrorIs(t, res.Err, ErrNotConfigured)
	assert.Empty(t, res.Attempts)
}

func TestChain_TimeoutThenSuccess(t *testing.T) {
	chain := Chain[string]{
		Dataset: "quote",
		Timeout: 20 * time.Millisecond,
		Providers: []Provider[string]{
			{Name: "slow", Configured: true, Fetch: hanging[string]},
			{Name: "fast", Configured: true, Fetch: func(context.Context) (string, error) { return "live value", nil }},
		},
		Fallback: func() string { return "mock" },
	}

	res := chain.Run(context.Background())

	assert.Equal(t, "live value", res.Value)
	assert.Equal(t, models.QualityLive, res.Quality)
	assert.Equal(t, "fast", res.Source)
	assert.Equal(t, ReasonNone, res.Reason)
	require.Len(t, res.Attempts, 2)
	assert.ErrorIs(t, res.Attempts[0].Err, context.DeadlineExceeded)
	assert.NoError(t, res.Attempts[1].Err)
}

func TestChain_FirstSuccessStops(t *testing.T) {
	var second atomic.Int32
	chain := Chain[int]{
		Dataset: "quote",
		Providers: []Provider[int]{
			{Name: "primary", Configured: true, Fetch: func(context.Context) (int, error) { return 1, nil }},
			{Name: "secondary", Configured: true, Fetch: counting(&second, 2, nil)},
		},
	}

	res := chain.Run(context.Background())

	assert.Equal(t, 1, res.Value)
	assert.Equal(t, int32(0), second.Load())
}

func TestChain_SkipsUnconfiguredProviders(t *testing.T) {
	var skipped atomic.Int32
	chain := Chain[int]{
		Dataset: "quote",
		Providers: []Provider[int]{
			{Name: "nokey", Configured: false, Fetch: counting(&skipped, 1, nil)},
			{Name: "keyed", Configured: true, Fetch: func(context.Context) (int, error) { return 2, nil }},
		},
	}

	res := chain.Run(context.Background())

	assert.Equal(t, 2, res.Value)
	assert.Equal(t, "keyed", res.Source)
	assert.Equal(t, int32(0), skipped.Load())
}

func TestChain_AllFail(t *testing.T) {
	errA := errors.New("status 500")
	errB := errors.New("rate limited")
	chain := Chain[string]{
		Dataset: "macro",
		Providers: []Provider[string]{
			{Name: "a", Configured: true, Fetch: func(context.Context) (string, error) { return "", errA }},
			{Name: "b", Configured: true, Fetch: func(context.Context) (string, error) { return "", errB }},
		},
		Fallback: func() string { return "synthetic series" },
	}

	res := chain.Run(context.Background())

	assert.Equal(t, "synthetic series", res.Value)
	assert.Equal(t, models.QualityMock, res.Quality)
	assert.Equal(t, SourceSynthetic, res.Source)
	assert.Equal(t, ReasonUpstreamFailed, res.Reason)
	assert.ErrorIs(t, res.Err, errA)
	assert.ErrorIs(t, res.Err, errB)
	assert.Len(t, res.Attempts, 2)
}

func TestChain_AcceptRejectsPayload(t *testing.T) {
	chain := Chain[float64]{
		Dataset: "quote",
		Providers: []Provider[float64]{
			{Name: "zero", Configured: true, Fetch: func(context.Context) (float64, error) { return 0, nil }},
			{Name: "real", Configured: true, Fetch: func(context.Context) (float64, error) { return 189.5, nil }},
		},
		Accept: func(v float64) error {
			if v <= 0 {
				return errors.New("non-positive price")
			}
			return nil
		},
	}

	res := chain.Run(context.Background())

	assert.Equal(t, 189.5, res.Value)
	assert.Equal(t, "real", res.Source)
	assert.ErrorIs(t, res.Attempts[0].Err, ErrRejected)
}

func TestChain_ProviderPanicIsAFailure(t *testing.T) {
	chain := Chain[string]{
		Dataset: "quote",
		Providers: []Provider[string]{
			{Name: "broken", Configured: true, Fetch: func(context.Context) (string, error) { panic("nil map") }},
			{Name: "ok", Configured: true, Fetch: func(context.Context) (string, error) { return "fine", nil }},
		},
	}

	res := chain.Run(context.Background())

	assert.Equal(t, "fine", res.Value)
	assert.ErrorIs(t, res.Attempts[0].Err, ErrPanic)
}

func TestChain_NilFallbackYieldsZero(t *testing.T) {
	res := Chain[*int]{Dataset: "profile"}.Run(context.Background())

	assert.Nil(t, res.Value)
	assert.Equal(t, models.QualityMock, res.Quality)
}

func TestGather_ConcatenatesUntilEnough(t *testing.T) {
	var third atomic.Int32
	g := Gather[string]{
		Dataset: "news",
		Providers: []Provider[[]string]{
			{Name: "a", Configured: true, Fetch: func(context.Context) ([]string, error) { return []string{"a1", "a2"}, nil }},
			{Name: "b", Configured: true, Fetch: func(context.Context) ([]string, error) { return []string{"b1"}, nil }},
			{Name: "c", Configured: true, Fetch: counting(&third, []string{"c1"}, nil)},
		},
		Enough: AtLeast[string](3),
	}

	res := g.Run(context.Background())

	assert.Equal(t, []string{"a1", "a2", "b1"}, res.Value)
	assert.Equal(t, models.QualityLive, res.Quality)
	assert.Equal(t, "a+b", res.Source)
	assert.Equal(t, int32(0), third.Load())
}

func TestGather_PartialProviderFailureIsStillLive(t *testing.T) {
	g := Gather[string]{
		Dataset: "news",
		Providers: []Provider[[]string]{
			{Name: "a", Configured: true, Fetch: func(context.Context) ([]string, error) { return nil, errors.New("down") }},
			{Name: "b", Configured: true, Fetch: func(context.Context) ([]string, error) { return []string{"b1"}, nil }},
		},
		Enough: AtLeast[string](10),
	}

	res := g.Run(context.Background())

	assert.Equal(t, []string{"b1"}, res.Value)
	assert.Equal(t, models.QualityLive, res.Quality)
	assert.Equal(t, "b", res.Source)
}

func TestGather_EmptyCountsAsFailure(t *testing.T) {
	g := Gather[string]{
		Dataset: "news",
		Providers: []Provider[[]string]{
			{Name: "a", Configured: true, Fetch: func(context.Context) ([]string, error) { return []string{}, nil }},
		},
		Fallback: func() []string { return []string{"mock"} },
	}

	res := g.Run(context.Background())

	assert.Equal(t, []string{"mock"}, res.Value)
	assert.Equal(t, ReasonUpstreamFailed, res.Reason)
	assert.ErrorIs(t, res.Err, ErrEmpty)
}

func TestGather_NotConfigured(t *testing.T) {
	g := Gather[string]{
		Dataset:  "news",
		Fallback: func() []string { return []string{"mock"} },
	}

	res := g.Run(context.Background())

	assert.Equal(t, ReasonNotConfigured, res.Reason)
	assert.Equal(t, models.QualityMock, res.Quality)
}

func TestQualityOf(t *testing.T) {
	tests := []struct {
		live, total int
		want        models.DataQuality
	}{
		{0, 0, models.QualityMock},
		{0, 5, models.QualityMock},
		{1, 5, models.QualityMixed},
		{4, 5, models.QualityMixed},
		{5, 5, models.QualityLive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QualityOf(tt.live, tt.total), "QualityOf(%d, %d)", tt.live, tt.total)
	}
}

func TestQualityOf_MixedIffPartial(t *testing.T) {
	const n = 6
	for m := 0; m <= n; m++ {
		mixed := QualityOf(m, n) == models.QualityMixed
		if mixed != (m > 0 && m < n) {
			t.Errorf("QualityOf(%d, %d) mixed = %v", m, n, mixed)
		}
	}
}

func TestCombine(t *testing.T) {
	live, mixed, mock := models.QualityLive, models.QualityMixed, models.QualityMock

	tests := []struct {
		name string
		in   []models.DataQuality
		want models.DataQuality
	}{
		{"none", nil, mock},
		{"all live", []models.DataQuality{live, live}, live},
		{"all mock", []models.DataQuality{mock, mock}, mock},
		{"live and mock", []models.DataQuality{live, mock}, mixed},
		{"contains mixed", []models.DataQuality{live, mixed}, mixed},
		{"single mixed", []models.DataQuality{mixed}, mixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.in...))
		})
	}
}

func TestReasonFor(t *testing.T) {
	assert.Equal(t, ReasonNone, ReasonFor(models.QualityLive))
	assert.Equal(t, ReasonPartial, ReasonFor(models.QualityMixed, ReasonUpstreamFailed))
	assert.Equal(t, ReasonNotConfigured, ReasonFor(models.QualityMock, ReasonNotConfigured, ReasonNotConfigured))
	assert.Equal(t, ReasonUpstreamFailed, ReasonFor(models.QualityMock, ReasonNotConfigured, ReasonUpstreamFailed))
	assert.Equal(t, ReasonUpstreamFailed, ReasonFor(models.QualityMock))
}

func TestSettle(t *testing.T) {
	out := Settle(context.Background(), 2,
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 0, errors.New("boom") },
		func(context.Context) (int, error) { panic("bad branch") },
		func(context.Context) (int, error) { return 4, nil },
	)

	require.Len(t, out, 4)
	assert.True(t, out[0].OK())
	assert.Equal(t, 1, out[0].Value)
	assert.EqualError(t, out[1].Err, "boom")
	assert.ErrorIs(t, out[2].Err, ErrPanic)
	assert.Equal(t, 4, out[3].Value)
}

func TestSettle_RunsConcurrently(t *testing.T) {
	start := time.Now()
	sleep := func(context.Context) (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 0, nil
	}

	Settle(context.Background(), 0, sleep, sleep, sleep, sleep)

	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestPair(t *testing.T) {
	a, b := Pair(context.Background(),
		func(context.Context) (string, error) { return "rsi", nil },
		func(context.Context) (float64, error) { return 0, errors.New("macd failed") },
	)

	assert.True(t, a.OK())
	assert.Equal(t, "rsi", a.Value)
	assert.False(t, b.OK())
}

func TestLiveResult(t *testing.T) {
	res := LiveResult(3, "fred")
	assert.True(t, res.Live())
	assert.Equal(t, "fred", res.Source)

	assert.False(t, SyntheticResult(3, ReasonInternalError, nil).Live())
}

func TestGather_DistinctKeysDecideEnough(t *testing.T) {
	var second atomic.Int32
	g := Gather[string]{
		Dataset: "news",
		Providers: []Provider[[]string]{
			{Name: "a", Configured: true, Fetch: func(context.Context) ([]string, error) {
				return []string{"same", "same", "same", "same"}, nil
			}},
			{Name: "b", Configured: true, Fetch: counting(&second, []string{"b1", "b2", "b3", "b4"}, nil)},
		},
		Enough: AtLeastDistinct(4, func(s string) string { return s }),
	}

	res := g.Run(context.Background())

	assert.Equal(t, int32(1), second.Load())
	assert.Equal(t, "a+b", res.Source)
	assert.Len(t, res.Value, 8)
}

func TestChain_NoFallbackIsNotCountedAsFallback(t *testing.T) {
	prev := observability.GetMetrics()
	m := observability.NewMetrics(prometheus.NewRegistry())
	observability.SetMetrics(m)
	t.Cleanup(func() { observability.SetMetrics(prev) })

	Chain[string]{
		Dataset:   "profile",
		Providers: []Provider[string]{{Name: "a", Configured: true, Fetch: counting(new(atomic.Int32), "", errors.New("down"))}},
	}.Run(context.Background())
	Chain[string]{Dataset: "profile"}.Run(context.Background())

	Chain[string]{
		Dataset:   "quote",
		Providers: []Provider[string]{{Name: "a", Configured: true, Fetch: counting(new(atomic.Int32), "", errors.New("down"))}},
		Fallback:  func() string { return "mock" },
	}.Run(context.Background())

	assert.Equal(t, 1, testutil.CollectAndCount(m.FallbacksTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("quote", string(ReasonUpstreamFailed))))
}
