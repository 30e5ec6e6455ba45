package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"market-sentiment/models"
)

// MultplService scrapes the monthly Shiller P/E (CAPE) table from multpl.com
type MultplService struct {
	client
	enabled bool
}

// NewMultplService creates a MultplService reading the table at pageURL.
func NewMultplService(enabled bool, pageURL string, opts ...Option) *MultplService {
	if pageURL == "" {
		pageURL = "https://www.multpl.com/shiller-pe/table/by-month"
	}
	return &MultplService{
		client:  newClient(BreakerMultpl, pageURL, opts),
		enabled: enabled,
	}
}

// Configured reports whether scraping is enabled.
func (s *MultplService) Configured() bool {
	return s != nil && s.enabled
}

const multplDateLayout = "Jan 2, 2006"

// GetCAPEHistory returns monthly CAPE values from since, oldest first.
func (s *MultplService) GetCAPEHistory(ctx context.Context, since time.Time) ([]models.CAPEPoint, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	header := http.Header{}
	header.Set("Accept", "text/html")
	header.Set("User-Agent", "Mozilla/5.0 (compatible; market-sentiment/1.0)")

	body, err := s.get(ctx, "cape_table", s.baseURL, header)
	if err != nil {
		return nil, err
	}

	points, err := ParseCAPETable(body)
	if err != nil {
		return nil, err
	}

	points = slices.DeleteFunc(points, func(p models.CAPEPoint) bool { return p.Date.Before(since) })
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no CAPE values since %s", ErrNoData, since.Format(time.DateOnly))
	}
	return points, nil
}

// ParseCAPETable extracts date/value rows from the multpl data table,
// returning them oldest first. Rows that do not parse are skipped.
func ParseCAPETable(html []byte) ([]models.CAPEPoint, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse CAPE page: %w", err)
	}

	rows := doc.Find("table#datatable tr")
	if rows.Length() == 0 {
		rows = doc.Find("table tr")
	}

	var points []models.CAPEPoint
	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		date, err := time.Parse(multplDateLayout, strings.TrimSpace(cells.Eq(0).Text()))
		if err != nil {
			return
		}
		value, ok := parseCAPEValue(cells.Eq(1).Text())
		if !ok {
			return
		}
		points = append(points, models.CAPEPoint{Date: date.UTC(), Value: value})
	})

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: CAPE table has no rows", ErrNoData)
	}

	slices.SortFunc(points, func(a, b models.CAPEPoint) int { return a.Date.Compare(b.Date) })
	// The first row is an intra-month estimate that can share a month with
	// the latest close; keep the most recent value per month.
	return dedupeMonths(points), nil
}

// parseCAPEValue reads the leading number of a cell such as "33.91 estimate".
func parseCAPEValue(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func dedupeMonths(points []models.CAPEPoint) []models.CAPEPoint {
	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && sameMonth(out[n-1].Date, p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
