package scanner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"SwingHunter/internal/collector"
	"SwingHunter/internal/logger"
	"SwingHunter/internal/model"
	"SwingHunter/internal/strategy"

	"golang.org/x/sync/errgroup"
)

// Progress is reported after each ticker has been processed.
type Progress struct {
	Done   int
	Total  int
	Symbol string
}

// Fraction returns Done/Total in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// ProgressFunc receives progress updates; it may be nil.
type ProgressFunc func(Progress)

// Scanner fetches and analyzes a list of tickers.
type Scanner struct {
	Fetcher      collector.Fetcher
	MarketSuffix string
	LookbackDays int
	Concurrency  int
}

// New creates a Scanner. concurrency < 1 means sequential.
func New(fetcher collector.Fetcher, marketSuffix string, lookbackDays, concurrency int) *Scanner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scanner{
		Fetcher:      fetcher,
		MarketSuffix: marketSuffix,
		LookbackDays: lookbackDays,
		Concurrency:  concurrency,
	}
}

// ParseTickers splits comma-separated input into normalized symbols:
// trimmed, uppercased, empty tokens dropped, market suffix appended when absent.
func ParseTickers(input, marketSuffix string) []string {
	var out []string
	for _, tok := range strings.Split(input, ",") {
		t := strings.ToUpper(strings.TrimSpace(tok))
		if t == "" {
			continue
		}
		suffix := strings.ToUpper(marketSuffix)
		if suffix != "" && !strings.HasSuffix(t, suffix) {
			t += suffix
		}
		out = append(out, t)
	}
	return out
}

// Scan analyzes every symbol and returns the successful results in input
// order. Fetch failures and short histories are dropped without error.
// A cancelled context stops the scan early with the results gathered so far.
func (s *Scanner) Scan(ctx context.Context, symbols []string, progress ProgressFunc) []model.ScanResult {
	start := time.Now()
	slots := make([]*model.ScanResult, len(symbols))

	var mu sync.Mutex
	done := 0
	report := func(symbol string) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if progress != nil {
			progress(Progress{Done: done, Total: len(symbols), Symbol: symbol})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			slots[i] = s.analyze(gctx, symbol)
			report(symbol)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]model.ScanResult, 0, len(symbols))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	logger.L().Info().
		Int("tickers", len(symbols)).
		Int("results", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("scan finished")
	return results
}

func (s *Scanner) analyze(ctx context.Context, symbol string) *model.ScanResult {
	bars, err := s.Fetcher.FetchDailyBars(ctx, symbol, s.LookbackDays)
	if err != nil {
		logger.L().Warn().Str("symbol", symbol).Str("source", s.Fetcher.Name()).Err(err).Msg("ticker dropped: fetch failed")
		return nil
	}

	series := model.Series{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
	res, err := strategy.Analyze(series, strings.ToUpper(s.MarketSuffix))
	if err != nil {
		if errors.Is(err, strategy.ErrInsufficientHistory) {
			logger.L().Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("ticker dropped: insufficient history")
		} else {
			logger.L().Warn().Str("symbol", symbol).Err(err).Msg("ticker dropped: analysis failed")
		}
		return nil
	}
	return res
}
