package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"market-sentiment/models"
)

// FREDService reads economic series from the St. Louis Fed FRED API
type FREDService struct {
	client
	apiKey string
}

// NewFREDService creates a new FREDService instance
func NewFREDService(apiKey string, opts ...Option) *FREDService {
	return &FREDService{
		client: newClient(BreakerFRED, "https://api.stlouisfed.org/fred", opts),
		apiKey: apiKey,
	}
}

// Configured reports whether the service has credentials.
func (s *FREDService) Configured() bool {
	return s != nil && s.apiKey != ""
}

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// GetSeries returns observations of a FRED series from since, oldest first.
func (s *FREDService) GetSeries(ctx context.Context, seriesID string, since time.Time) ([]models.Observation, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", s.apiKey)
	params.Set("file_type", "json")
	params.Set("sort_order", "asc")
	params.Set("observation_start", since.Format(time.DateOnly))

	var resp fredObservationsResponse
	if err := s.getJSON(ctx, "observations", s.baseURL+"/series/observations?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	obs := make([]models.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		d, err := time.Parse(time.DateOnly, o.Date)
		if err != nil {
			continue
		}
		// Missing values are reported as "."
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		obs = append(obs, models.Observation{Date: d, Value: v})
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: no observations for %s", ErrNoData, seriesID)
	}

	return obs, nil
}

// GetIndicator returns the FRED series backing a macro indicator.
func (s *FREDService) GetIndicator(ctx context.Context, ind models.MacroIndicator, since time.Time) ([]models.Observation, error) {
	if ind.FREDSeries == "" {
		return nil, fmt.Errorf("%w: no FRED series for %s", ErrNoData, ind.Key)
	}
	return s.GetSeries(ctx, ind.FREDSeries, since)
}
