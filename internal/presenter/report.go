package presenter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"SwingHunter/internal/model"
)

// NoDataNotice is shown by every renderer when a scan yields no results.
const NoDataNotice = "No data found. Check your connection or ticker symbols."

// Label cell colors.
const (
	ColorSwingBuy = "#90ee90"
	ColorBreakout = "#00ff00"
	ColorAvoid    = "#ffcccb"
	ColorDefault  = "#ffffff"
)

// Row is one line of the summary table.
type Row struct {
	Ticker      string  `json:"ticker"`
	Close       int64   `json:"close"`
	Label       string  `json:"label"`
	RSI         float64 `json:"rsi"`
	VolumeRatio float64 `json:"volume_ratio"`
	MA20        int64   `json:"ma20"`
	Score       int     `json:"score"`
	Color       string  `json:"color"`
}

// ChartSpec describes the candlestick chart of one qualifying ticker.
type ChartSpec struct {
	Ticker string `json:"ticker"`
	Label  string `json:"label"`
	Title  string `json:"title"`
	Advice string `json:"advice,omitempty"`
	// Index is the position among the report's charts.
	Index int `json:"index"`
	// Column is the dashboard column (0 left, 1 right).
	Column int `json:"column"`

	Bars []model.OHLCV `json:"-"`
	MA20 []float64     `json:"-"`
}

// Report is the rank-ordered outcome of one scan, ready for rendering.
type Report struct {
	Rows        []Row       `json:"rows"`
	Charts      []ChartSpec `json:"charts"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Empty reports whether the scan produced no results.
func (r Report) Empty() bool { return len(r.Rows) == 0 }

// Build ranks results and derives the table rows and chart specs.
func Build(results []model.ScanResult) Report {
	ranked := Rank(results)
	return Report{
		Rows:        Rows(ranked),
		Charts:      Charts(ranked),
		GeneratedAt: time.Now(),
	}
}

// Rank returns a copy of results sorted by score, highest first.
// Equal scores keep their scan order.
func Rank(results []model.ScanResult) []model.ScanResult {
	ranked := make([]model.ScanResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Signal.Score > ranked[j].Signal.Score
	})
	return ranked
}

// Rows maps results to table rows, keeping their order.
func Rows(results []model.ScanResult) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, Row{
			Ticker:      r.Ticker,
			Close:       r.Close,
			Label:       r.Signal.Label,
			RSI:         r.RSI,
			VolumeRatio: r.VolumeRatio,
			MA20:        r.MA20,
			Score:       r.Signal.Score,
			Color:       LabelColor(r.Signal.Label),
		})
	}
	return rows
}

// LabelColor picks the highlight of a label cell. Substrings are checked
// case-sensitively in order, so the first match wins.
func LabelColor(label string) string {
	switch {
	case strings.Contains(label, "SWING BUY"):
		return ColorSwingBuy
	case strings.Contains(label, "BREAKOUT"):
		return ColorBreakout
	case strings.Contains(label, "AVOID"):
		return ColorAvoid
	default:
		return ColorDefault
	}
}

// Charts builds a chart spec for every result with a positive score,
// alternating columns in the given order.
func Charts(results []model.ScanResult) []ChartSpec {
	var specs []ChartSpec
	for _, r := range results {
		if r.Signal.Score <= 0 {
			continue
		}
		specs = append(specs, ChartSpec{
			Ticker: r.Ticker,
			Label:  r.Signal.Label,
			Title:  fmt.Sprintf("Chart %s - %s", r.Ticker, r.Signal.Label),
			Advice: Advice(r),
			Index:  len(specs),
			Column: len(specs) % 2,
			Bars:   r.Series.Bars,
			MA20:   r.Indicators.MA20,
		})
	}
	return specs
}

// Advice returns the advisory attached to a chart, or "" when the label
// has none.
func Advice(r model.ScanResult) string {
	switch {
	case strings.Contains(r.Signal.Label, "SWING BUY"):
		return fmt.Sprintf("%s is in an uptrend and trading at a discount (RSI %.2f). Check the broker summary to confirm accumulation!", r.Ticker, r.RSI)
	case strings.Contains(r.Signal.Label, "BREAKOUT"):
		return fmt.Sprintf("%s volume exploded (%.2fx average). Check the broker summary to see who is buying!", r.Ticker, r.VolumeRatio)
	default:
		return ""
	}
}
