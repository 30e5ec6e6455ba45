package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"market-sentiment/models"

	"github.com/shopspring/decimal"
)

// FinnhubService handles communication with the Finnhub REST API
type FinnhubService struct {
	client
	apiKey string
}

// NewFinnhubService creates a new FinnhubService instance
func NewFinnhubService(apiKey string, opts ...Option) *FinnhubService {
	return &FinnhubService{
		client: newClient(BreakerFinnhub, "https://finnhub.io/api/v1", opts),
		apiKey: apiKey,
	}
}

// Configured reports whether the service has credentials.
func (s *FinnhubService) Configured() bool {
	return s != nil && s.apiKey != ""
}

type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

type finnhubProfile struct {
	Country   string  `json:"country"`
	Currency  string  `json:"currency"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"finnhubIndustry"`
	IPO       string  `json:"ipo"`
	Logo      string  `json:"logo"`
	MarketCap float64 `json:"marketCapitalization"` // millions
	Name      string  `json:"name"`
	Ticker    string  `json:"ticker"`
	WebURL    string  `json:"weburl"`
}

func (s *FinnhubService) call(ctx context.Context, operation, path, symbol string, out any) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))

	header := http.Header{}
	header.Set("X-Finnhub-Token", s.apiKey)

	return s.getJSON(ctx, operation, s.baseURL+path+"?"+params.Encode(), header, out)
}

// GetQuote returns the latest quote for a symbol
func (s *FinnhubService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var q finnhubQuote
	if err := s.call(ctx, "quote", "/quote", symbol, &q); err != nil {
		return nil, err
	}
	// Unknown symbols come back as all zeros
	if q.Current == 0 {
		return nil, fmt.Errorf("%w: no quote for %s", ErrNoData, symbol)
	}

	ts := time.Now().UTC()
	if q.Timestamp > 0 {
		ts = time.Unix(q.Timestamp, 0).UTC()
	}

	return &models.Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         decimal.NewFromFloat(q.Current),
		Change:        decimal.NewFromFloat(q.Change),
		ChangePercent: decimal.NewFromFloat(q.ChangePercent).Round(4),
		Open:          decimal.NewFromFloat(q.Open),
		High:          decimal.NewFromFloat(q.High),
		Low:           decimal.NewFromFloat(q.Low),
		PreviousClose: decimal.NewFromFloat(q.PreviousClose),
		Timestamp:     ts,
	}, nil
}

// GetCompanyProfile returns descriptive data for a symbol
func (s *FinnhubService) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	var p finnhubProfile
	if err := s.call(ctx, "profile", "/stock/profile2", symbol, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: no profile for %s", ErrNoData, symbol)
	}

	return &models.CompanyProfile{
		Symbol:    strings.ToUpper(symbol),
		Name:      p.Name,
		Exchange:  p.Exchange,
		Industry:  p.Industry,
		Country:   p.Country,
		MarketCap: decimal.NewFromFloat(p.MarketCap).Mul(decimal.NewFromInt(1_000_000)).Round(0),
		Website:   p.WebURL,
		Logo:      p.Logo,
	}, nil
}
