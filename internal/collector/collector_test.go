package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const yahooBody = `{"chart":{"result":[{
	"timestamp":[1700172800,1700000000,1700086400,1700259200],
	"indicators":{"quote":[{
		"open":[103,100,101,null],
		"high":[105,102,103,null],
		"low":[102,99,100,null],
		"close":[104,101,102,null],
		"volume":[3000,1000,2000,null]
	}]}
}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotRange, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "", 5*time.Second)
	bars, err := f.FetchDailyBars(context.Background(), "BBCA.JK", 180)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v8/finance/chart/BBCA.JK" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotRange != "6mo" || gotInterval != "1d" {
		t.Errorf("expected range=6mo interval=1d, got %q/%q", gotRange, gotInterval)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars after skipping null bar, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Time.Before(bars[i].Time) {
			t.Fatalf("bars not chronological at %d", i)
		}
	}
	if bars[0].Close != 101 || bars[2].Close != 104 || bars[2].Volume != 3000 {
		t.Errorf("unexpected bars: %+v", bars)
	}
}

func TestParseYahooChart_SkipsMissingClose(t *testing.T) {
	body := `{"chart":{"result":[{
		"timestamp":[1700000000,1700086400,1700172800],
		"indicators":{"quote":[{
			"open":[100,101,102],
			"high":[102,103,104],
			"low":[99,100,101],
			"close":[101,null,103],
			"volume":[1000,2000,3000]
		}]}
	}],"error":null}}`

	bars, err := parseYahooChart([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	for _, b := range bars {
		if b.Close == 0 {
			t.Errorf("bar with zero close kept: %+v", b)
		}
	}
	if bars[1].Close != 103 {
		t.Errorf("unexpected last close %v", bars[1].Close)
	}
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		{"bad json", http.StatusOK, `{"chart":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewYahooFetcher(srv.URL, "", 5*time.Second).FetchDailyBars(context.Background(), "XXXX.JK", 180)
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if fe.Symbol != "XXXX.JK" || fe.Source != "yahoo" {
				t.Errorf("unexpected error fields: %+v", fe)
			}
		})
	}
}

func TestYahooRange(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{10, "1mo"}, {30, "1mo"}, {90, "3mo"}, {180, "6mo"}, {365, "1y"}, {500, "2y"},
	}
	for _, tt := range tests {
		if got := yahooRange(tt.days); got != tt.want {
			t.Errorf("yahooRange(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestRESTFetcher_FetchDailyBars(t *testing.T) {
	var gotAuth, gotSymbol, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/bars/daily" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotSymbol = r.URL.Query().Get("symbol")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[
			{"timestamp":1700086400,"open":2,"high":3,"low":1,"close":2.5,"volume":20},
			{"timestamp":1700000000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", 5*time.Second)
	bars, err := f.FetchDailyBars(context.Background(), "BBCA.JK", 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotSymbol != "BBCA.JK" || gotLimit != "50" {
		t.Errorf("unexpected query symbol=%q limit=%q", gotSymbol, gotLimit)
	}
	if len(bars) != 2 || bars[0].Close != 1.5 || bars[1].Close != 2.5 {
		t.Errorf("expected sorted bars, got %+v", bars)
	}
}

func TestRESTFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "", 5*time.Second).FetchDailyBars(context.Background(), "BBCA.JK", 180)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
}

func TestMockFetcher(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{Fail: map[string]bool{"BAD.JK": true}, Now: now}

	a, err := m.FetchDailyBars(context.Background(), "BBCA.JK", 180)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := m.FetchDailyBars(context.Background(), "BBCA.JK", 180)
	if len(a) != 128 || len(a) != len(b) {
		t.Fatalf("expected 128 bars twice, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bar %d differs between calls", i)
		}
	}

	if _, err := m.FetchDailyBars(context.Background(), "BAD.JK", 180); err == nil {
		t.Error("expected error for failing symbol")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.FetchDailyBars(ctx, "BBCA.JK", 180); err == nil {
		t.Error("expected error for cancelled context")
	}
}
