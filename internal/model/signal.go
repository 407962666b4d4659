package model

// Signal labels produced by the strategy rule table.
const (
	LabelSwingBuy = "SWING BUY (DIP)"
	LabelBreakout = "BREAKOUT"
	LabelAvoid    = "AVOID / DOWNTREND"
	LabelNeutral  = "NEUTRAL"
)

// Signal is the qualitative classification of a ticker and its rank score.
type Signal struct {
	Label string
	Score int
}

// Snapshot holds the last-bar values the classification depends on.
type Snapshot struct {
	Close   float64
	MA20    float64
	RSI     float64
	Volume  float64
	VolMA20 float64
}

// IndicatorSet holds indicator values aligned to the bars of a Series.
// Points without enough history are NaN.
type IndicatorSet struct {
	MA20    []float64
	VolMA20 []float64
	RSI14   []float64
}

// ScanResult is the analysis outcome of one ticker.
type ScanResult struct {
	Ticker      string // display symbol, market suffix stripped
	Symbol      string // normalized symbol as fetched
	Close       int64
	MA20        int64
	RSI         float64
	VolumeRatio float64
	Signal      Signal
	Series      Series
	Indicators  IndicatorSet
}
