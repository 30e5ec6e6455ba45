package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"market-sentiment/models"

	"github.com/shopspring/decimal"
)

// FMPService handles communication with Financial Modeling Prep API
type FMPService struct {
	client
	apiKey string
}

// NewFMPService creates a new FMPService instance
func NewFMPService(apiKey string, opts ...Option) *FMPService {
	return &FMPService{
		client: newClient(BreakerFMP, "https://financialmodelingprep.com/api/v3", opts),
		apiKey: apiKey,
	}
}

// Configured reports whether the service has credentials.
func (s *FMPService) Configured() bool {
	return s != nil && s.apiKey != ""
}

// fmpQuoteResponse represents a quote from the FMP API
type fmpQuoteResponse struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Change            float64 `json:"change"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	Open              float64 `json:"open"`
	PreviousClose     float64 `json:"previousClose"`
	Volume            int64   `json:"volume"`
	Timestamp         int64   `json:"timestamp"`
}

// fmpProfileResponse represents a company profile from the FMP API
type fmpProfileResponse struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Price             float64 `json:"price"`
	MktCap            int64   `json:"mktCap"`
	Currency          string  `json:"currency"`
	Exchange          string  `json:"exchange"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Industry          string  `json:"industry"`
	Website           string  `json:"website"`
	Sector            string  `json:"sector"`
	Country           string  `json:"country"`
	Image             string  `json:"image"`
	IsActivelyTrading bool    `json:"isActivelyTrading"`
}

// fmpErrorResponse is returned with a 200 for invalid keys and plan limits
type fmpErrorResponse struct {
	ErrorMessage string `json:"Error Message"`
}

// fetchList retrieves an endpoint that returns a JSON array.
func (s *FMPService) fetchList(ctx context.Context, operation, path string, out any) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	reqURL := fmt.Sprintf("%s/%s?apikey=%s", s.baseURL, path, url.QueryEscape(s.apiKey))

	body, err := s.get(ctx, operation, reqURL, nil)
	if err != nil {
		return err
	}

	if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "{") {
		var e fmpErrorResponse
		if err := json.Unmarshal(body, &e); err == nil && e.ErrorMessage != "" {
			return fmt.Errorf("%w: fmp: %s", ErrProviderReported, e.ErrorMessage)
		}
		return fmt.Errorf("%w: unexpected %s payload", ErrProviderReported, operation)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// GetQuote returns the latest quote for a symbol
func (s *FMPService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var quotes []fmpQuoteResponse
	if err := s.fetchList(ctx, "quote", "quote/"+url.PathEscape(strings.ToUpper(symbol)), &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 || quotes[0].Price == 0 {
		return nil, fmt.Errorf("%w: no quote for %s", ErrNoData, symbol)
	}

	q := quotes[0]
	ts := time.Now().UTC()
	if q.Timestamp > 0 {
		ts = time.Unix(q.Timestamp, 0).UTC()
	}

	return &models.Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         decimal.NewFromFloat(q.Price),
		Change:        decimal.NewFromFloat(q.Change),
		ChangePercent: decimal.NewFromFloat(q.ChangesPercentage).Round(4),
		Open:          decimal.NewFromFloat(q.Open),
		High:          decimal.NewFromFloat(q.DayHigh),
		Low:           decimal.NewFromFloat(q.DayLow),
		PreviousClose: decimal.NewFromFloat(q.PreviousClose),
		Volume:        q.Volume,
		Timestamp:     ts,
	}, nil
}

// GetCompanyProfile returns descriptive data for a symbol
func (s *FMPService) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	var profiles []fmpProfileResponse
	if err := s.fetchList(ctx, "profile", "profile/"+url.PathEscape(strings.ToUpper(symbol)), &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no profile data for symbol %s", ErrNoData, symbol)
	}

	p := profiles[0]
	return &models.CompanyProfile{
		Symbol:    p.Symbol,
		Name:      p.CompanyName,
		Exchange:  p.ExchangeShortName,
		Sector:    p.Sector,
		Industry:  p.Industry,
		Country:   p.Country,
		MarketCap: decimal.NewFromInt(p.MktCap),
		Website:   p.Website,
		Logo:      p.Image,
	}, nil
}
