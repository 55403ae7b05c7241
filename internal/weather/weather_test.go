package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const sampleResponse = `{
	"current_condition": [{
		"temp_C": "21",
		"temp_F": "70",
		"humidity": "48",
		"windspeedKmph": "11",
		"weatherCode": "113",
		"weatherDesc": [{"value": "Sunny"}]
	}],
	"nearest_area": [{
		"areaName": [{"value": "Lisbon"}]
	}]
}`

func TestFetchParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "j1" {
			t.Errorf("missing format=j1 query, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	report, err := NewClientWithBaseURL(server.URL).Fetch(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if report.TempC != 21 {
		t.Errorf("TempC = %d, want 21", report.TempC)
	}
	if report.Condition != "Sunny" {
		t.Errorf("Condition = %q, want Sunny", report.Condition)
	}
	if report.Location != "Lisbon" {
		t.Errorf("Location = %q, want Lisbon", report.Location)
	}
	if report.Glyph != "☀️" {
		t.Errorf("Glyph = %q, want clear-sky glyph", report.Glyph)
	}
	if report.WindKph != 11 {
		t.Errorf("WindKph = %v, want 11", report.WindKph)
	}
	if report.DisplayTemp() != "21°C" {
		t.Errorf("DisplayTemp = %q", report.DisplayTemp())
	}
}

func TestFetchRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := NewClientWithBaseURL(server.URL).Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestFetchRejectsEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current_condition": []}`))
	}))
	defer server.Close()

	if _, err := NewClientWithBaseURL(server.URL).Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected error on empty current_condition")
	}
}

func TestGlyphForCode(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{113, "☀️"},
		{116, "⛅"},
		{122, "☁️"},
		{296, "🌧️"},
		{389, "⛈️"},
		{332, "❄️"},
		{999, "🌤️"},
	}
	for _, tc := range cases {
		if got := glyphForCode(tc.code); got != tc.want {
			t.Errorf("glyphForCode(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestPollerSkipsFailedFetches(t *testing.T) {
	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	updates := make(chan Report, 8)
	poller := NewPoller(
		NewClientWithBaseURL(server.URL), "", 20*time.Millisecond,
		func(report Report) { updates <- report }, nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	select {
	case report := <-updates:
		t.Fatalf("unexpected update while server failing: %+v", report)
	case <-time.After(60 * time.Millisecond):
	}

	healthy.Store(true)
	select {
	case report := <-updates:
		if report.TempC != 21 {
			t.Errorf("TempC = %d, want 21", report.TempC)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update after server recovered")
	}
}
