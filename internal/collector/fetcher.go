package collector

import (
	"context"
	"fmt"

	"SwingHunter/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// FetchError reports a failed fetch for one symbol: network, status,
// decode, API error or empty data.
type FetchError struct {
	Source string
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch %s: %v", e.Source, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func fetchErr(source, symbol string, err error) error {
	return &FetchError{Source: source, Symbol: symbol, Err: err}
}
