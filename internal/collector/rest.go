package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"SwingHunter/internal/model"

	"github.com/go-resty/resty/v2"
)

// RESTFetcher implements Fetcher against a generic bars REST API
// exposing GET /api/v1/bars/daily?symbol=&limit=.
type RESTFetcher struct {
	client *resty.Client
}

// NewRESTFetcher creates a new fetcher with optional bearer key and proxy.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &RESTFetcher{client: client}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// FetchDailyBars requests roughly one bar per trading day in the window.
func (f *RESTFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"limit":  strconv.Itoa(tradingDays(days)),
		}).
		Get("/api/v1/bars/daily")
	if err != nil {
		return nil, fetchErr(f.Name(), symbol, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fetchErr(f.Name(), symbol, fmt.Errorf("status %d, body: %s", resp.StatusCode(), resp.String()))
	}

	var raw []restBar
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fetchErr(f.Name(), symbol, fmt.Errorf("decode bars: %w", err))
	}
	bars := make([]model.OHLCV, len(raw))
	for i, rb := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// tradingDays approximates the trading sessions in a calendar window.
func tradingDays(days int) int {
	n := days * 5 / 7
	if n < 1 {
		n = 1
	}
	return n
}
