package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const capeTableFixture = `<html><body>
<table id="datatable">
	<tr><th>Date</th><th>Value</th></tr>
	<tr><td>Oct 14, 2026</td><td>&#x2002;
		37.82 estimate</td></tr>
	<tr><td>Oct 1, 2026</td><td>37.10</td></tr>
	<tr><td>Sep 1, 2026</td><td>36.55</td></tr>
	<tr><td>Aug 1, 2026</td><td>35.90</td></tr>
	<tr><td>not a date</td><td>12.00</td></tr>
	<tr><td>Jul 1, 2026</td><td>n/a</td></tr>
</table>
</body></html>`

func TestParseCAPETable(t *testing.T) {
	points, err := ParseCAPETable([]byte(capeTableFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(points) != 3 {
		t.Fatalf("expected 3 monthly points, got %d: %+v", len(points), points)
	}
	if points[0].Value != 35.90 || points[1].Value != 36.55 {
		t.Errorf("expected ascending order, got %+v", points)
	}
	// the intra-month estimate replaces the month's first value
	if points[2].Value != 37.82 {
		t.Errorf("expected latest October value 37.82, got %v", points[2].Value)
	}
}

func TestParseCAPETable_NoRows(t *testing.T) {
	if _, err := ParseCAPETable([]byte(`<html><body><p>maintenance</p></body></html>`)); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestParseCAPEValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"33.91", 33.91, true},
		{" 33.91 estimate", 33.91, true},
		{"1,024.5", 1024.5, true},
		{"", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseCAPEValue(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseCAPEValue(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMultplService_GetCAPEHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a user agent")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(capeTableFixture))
	}))
	defer server.Close()

	svc := NewMultplService(true, server.URL)
	since := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	points, err := svc.GetCAPEHistory(context.Background(), since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Errorf("expected points from September onward, got %d", len(points))
	}

	if _, err := svc.GetCAPEHistory(context.Background(), time.Now().AddDate(1, 0, 0)); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData when nothing is recent enough, got %v", err)
	}
}

func TestMultplService_Disabled(t *testing.T) {
	svc := NewMultplService(false, "")
	if svc.Configured() {
		t.Error("expected disabled service to be unconfigured")
	}
	if _, err := svc.GetCAPEHistory(context.Background(), time.Time{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
