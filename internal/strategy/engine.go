package strategy

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"SwingHunter/internal/calculator"
	"SwingHunter/internal/model"

	"github.com/shopspring/decimal"
)

const (
	MAPeriod  = 20
	RSIPeriod = 14

	// MinBars is the shortest series that can be analyzed.
	MinBars = MAPeriod
)

// ErrInsufficientHistory is returned by Analyze for series shorter than MinBars.
var ErrInsufficientHistory = errors.New("insufficient history")

// Rule is one guarded entry of the classification table.
type Rule struct {
	Signal model.Signal
	Match  func(s model.Snapshot) bool
}

// Rules is evaluated top to bottom and the first match wins. BREAKOUT
// outranks SWING BUY by score but is checked after it, so a bar meeting
// both conditions is always a SWING BUY.
var Rules = []Rule{
	{
		Signal: model.Signal{Label: model.LabelSwingBuy, Score: 2},
		Match:  func(s model.Snapshot) bool { return s.Close > s.MA20 && s.RSI < 55 },
	},
	{
		Signal: model.Signal{Label: model.LabelBreakout, Score: 3},
		Match:  func(s model.Snapshot) bool { return s.Volume > 1.5*s.VolMA20 && s.Close > s.MA20 },
	},
	{
		Signal: model.Signal{Label: model.LabelAvoid, Score: -1},
		Match:  func(s model.Snapshot) bool { return s.Close < s.MA20 },
	},
}

// DefaultSignal applies when no rule matches.
var DefaultSignal = model.Signal{Label: model.LabelNeutral, Score: 0}

// Classify maps a last-bar snapshot to its signal.
func Classify(s model.Snapshot) model.Signal {
	for _, r := range Rules {
		if r.Match(s) {
			return r.Signal
		}
	}
	return DefaultSignal
}

// Compute derives MA20, VolMA20 and RSI14 for every bar of the series.
func Compute(series model.Series) model.IndicatorSet {
	return model.IndicatorSet{
		MA20:    calculator.SMASeries(series.Closes(), MAPeriod),
		VolMA20: calculator.SMASeries(series.Volumes(), MAPeriod),
		RSI14:   calculator.RSISeries(series.Closes(), RSIPeriod),
	}
}

// Analyze computes the indicators of a series and classifies its last bar.
// marketSuffix is stripped from the symbol to build the display ticker.
func Analyze(series model.Series, marketSuffix string) (*model.ScanResult, error) {
	if series.Len() < MinBars {
		return nil, ErrInsufficientHistory
	}

	ind := Compute(series)
	last := series.Len() - 1
	bar := series.Last()
	snap := model.Snapshot{
		Close:   bar.Close,
		MA20:    ind.MA20[last],
		RSI:     ind.RSI14[last],
		Volume:  bar.Volume,
		VolMA20: ind.VolMA20[last],
	}

	var volRatio float64
	if snap.VolMA20 != 0 {
		volRatio = snap.Volume / snap.VolMA20
	}

	return &model.ScanResult{
		Ticker:      DisplayTicker(series.Symbol, marketSuffix),
		Symbol:      series.Symbol,
		Close:       truncate(snap.Close),
		MA20:        truncate(snap.MA20),
		RSI:         round2(snap.RSI),
		VolumeRatio: round2(volRatio),
		Signal:      Classify(snap),
		Series:      series,
		Indicators:  ind,
	}, nil
}

// DisplayTicker strips the market suffix from a normalized symbol.
func DisplayTicker(symbol, marketSuffix string) string {
	if marketSuffix == "" {
		return symbol
	}
	return strings.TrimSuffix(symbol, marketSuffix)
}

func truncate(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).IntPart()
}

// round2 rounds the exact binary value of v to 2 decimals, ties to even.
// 2.675 is stored as 2.67499... and becomes 2.67.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 40, 64))
	if err != nil {
		return 0
	}
	return d.RoundBank(2).InexactFloat64()
}
