// Package fetch resolves a logical dataset from an ordered list of upstream
// providers and degrades to synthetic data when none of them succeed.
//
// Nothing here retries. A provider that errors, times out, reports a
// business error or returns a payload the dataset rejects is logged and the
// next provider is tried. The outcome is always a Result carrying a value
// and a data-quality tag; failures never escape as errors.
package fetch

import (
	"errors"
	"time"

	"market-sentiment/models"
)

var (
	// ErrNotConfigured means no provider for the dataset has credentials.
	ErrNotConfigured = errors.New("no provider configured")
	// ErrEmpty means a provider answered successfully with no items.
	ErrEmpty = errors.New("provider returned no data")
	// ErrRejected means a provider payload failed the dataset's acceptance check.
	ErrRejected = errors.New("provider payload rejected")
	// ErrPanic means a provider or branch panicked.
	ErrPanic = errors.New("recovered panic")
)

// FallbackReason explains why a Result holds synthetic data
type FallbackReason string

const (
	ReasonNone           FallbackReason = ""
	ReasonNotConfigured  FallbackReason = "not_configured"
	ReasonUpstreamFailed FallbackReason = "upstream_failed"
	ReasonPartial        FallbackReason = "partial"
	ReasonInternalError  FallbackReason = "internal_error"
)

// Attempt records one provider call
type Attempt struct {
	Provider string
	Err      error
	Duration time.Duration
}

// Result is the outcome of resolving a dataset.
type Result[T any] struct {
	Value    T
	Quality  models.DataQuality
	Source   string
	Reason   FallbackReason
	Err      error
	Attempts []Attempt
}

// Live reports whether the value came from an upstream provider.
func (r Result[T]) Live() bool {
	return r.Quality == models.QualityLive
}

// LiveResult wraps an upstream value.
func LiveResult[T any](v T, source string) Result[T] {
	return Result[T]{Value: v, Quality: models.QualityLive, Source: source}
}

// SyntheticResult wraps a generated value.
func SyntheticResult[T any](v T, reason FallbackReason, err error) Result[T] {
	return Result[T]{
		Value:   v,
		Quality: models.QualityMock,
		Source:  SourceSynthetic,
		Reason:  reason,
		Err:     err,
	}
}

// SourceSynthetic names generated data in Result.Source.
const SourceSynthetic = "synthetic"

// QualityOf tags a multi-item result where live of total items resolved upstream.
func QualityOf(live, total int) models.DataQuality {
	switch {
	case total == 0 || live == 0:
		return models.QualityMock
	case live >= total:
		return models.QualityLive
	default:
		return models.QualityMixed
	}
}

// Combine merges sub-result qualities: live iff all are live, mock iff all
// are mock (or there are none), mixed otherwise.
func Combine(qualities ...models.DataQuality) models.DataQuality {
	if len(qualities) == 0 {
		return models.QualityMock
	}
	allLive, allMock := true, true
	for _, q := range qualities {
		switch q {
		case models.QualityLive:
			allMock = false
		case models.QualityMock:
			allLive = false
		default:
			allLive, allMock = false, false
		}
	}
	switch {
	case allLive:
		return models.QualityLive
	case allMock:
		return models.QualityMock
	default:
		return models.QualityMixed
	}
}

// ReasonFor picks the fallback reason describing a combined quality, given
// the reasons of the synthetic sub-results.
func ReasonFor(q models.DataQuality, reasons ...FallbackReason) FallbackReason {
	switch q {
	case models.QualityLive:
		return ReasonNone
	case models.QualityMixed:
		return ReasonPartial
	}
	for _, r := range reasons {
		if r == ReasonUpstreamFailed || r == ReasonInternalError {
			return r
		}
	}
	for _, r := range reasons {
		if r != ReasonNone {
			return r
		}
	}
	return ReasonUpstreamFailed
}
