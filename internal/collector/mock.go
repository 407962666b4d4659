package collector

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"time"

	"SwingHunter/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols listed in Bars get those bars, symbols in Fail get a FetchError,
// every other symbol gets a deterministic synthetic series.
type MockFetcher struct {
	Bars map[string][]model.OHLCV
	Fail map[string]bool
	// Now anchors the synthetic series; zero means time.Now.
	Now time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetchErr(m.Name(), symbol, err)
	}
	if m.Fail[symbol] {
		return nil, fetchErr(m.Name(), symbol, errors.New("symbol not found"))
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}
	return generateMockBars(symbol, tradingDays(days), now), nil
}

// generateMockBars builds a wave around a per-symbol base price so that
// different symbols land in different signal states.
func generateMockBars(symbol string, count int, now time.Time) []model.OHLCV {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	seed := h.Sum32()

	base := 500 + float64(seed%9500)
	phase := float64(seed%360) * math.Pi / 180
	drift := (float64(seed%7) - 3) * 0.001

	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := base * (1 + drift*float64(i) + 0.05*math.Sin(phase+float64(i)/6))
		vol := 1e6 * (1 + 0.5*math.Sin(phase+float64(i)/3))
		if i == count-1 && seed%3 == 0 {
			vol *= 3
		}
		bars[i] = model.OHLCV{
			Time:   now.AddDate(0, 0, -(count - i)),
			Open:   p * 0.995,
			High:   p * 1.01,
			Low:    p * 0.99,
			Close:  p,
			Volume: math.Round(vol),
		}
	}
	return bars
}
