package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Dashboard clients expect numeric JSON for prices.
	decimal.MarshalJSONWithoutQuotes = true
}

// Quote represents the latest quote for a stock
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Volume        int64           `json:"volume"`
	Timestamp     time.Time       `json:"timestamp"`
}

// CompanyProfile holds descriptive data for a listed company
type CompanyProfile struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Exchange  string          `json:"exchange,omitempty"`
	Sector    string          `json:"sector,omitempty"`
	Industry  string          `json:"industry,omitempty"`
	Country   string          `json:"country,omitempty"`
	MarketCap decimal.Decimal `json:"marketCap"`
	Website   string          `json:"website,omitempty"`
	Logo      string          `json:"logo,omitempty"`
}

// Technicals holds momentum indicators for a symbol
type Technicals struct {
	RSI           float64 `json:"rsi"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macdSignal"`
	MACDHistogram float64 `json:"macdHistogram"`
	SMA20         float64 `json:"sma20,omitempty"`
	SMA50         float64 `json:"sma50,omitempty"`
	Signal        string  `json:"signal"`
	Source        string  `json:"source"`
}

// RSISignal classifies an RSI reading.
func RSISignal(rsi float64) string {
	switch {
	case rsi >= 70:
		return "overbought"
	case rsi <= 30:
		return "oversold"
	default:
		return "neutral"
	}
}

// PricePoint is a single daily close
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// StockSnapshot is the per-symbol payload of the stocks endpoint.
type StockSnapshot struct {
	Symbol      string          `json:"symbol"`
	Quote       Quote           `json:"quote"`
	Profile     *CompanyProfile `json:"profile,omitempty"`
	Technicals  *Technicals     `json:"technicals,omitempty"`
	Source      string          `json:"source"`
	DataQuality DataQuality     `json:"dataQuality"`
	Error       string          `json:"error,omitempty"`
}

// MarketSummary aggregates the day's moves across requested symbols
type MarketSummary struct {
	Advancers            int     `json:"advancers"`
	Decliners            int     `json:"decliners"`
	Unchanged            int     `json:"unchanged"`
	AverageChangePercent float64 `json:"averageChangePercent"`
}
