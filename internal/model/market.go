package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series holds the chronological daily bars of one ticker.
type Series struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Last returns the most recent bar. Callers must check Len first.
func (s Series) Last() OHLCV { return s.Bars[len(s.Bars)-1] }

// Closes extracts the close prices in bar order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the traded volumes in bar order.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}
