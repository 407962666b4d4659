package presenter

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"SwingHunter/internal/calculator"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EchartsAsset is the script the rendered chart snippets depend on.
const EchartsAsset = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

const (
	chartHeight = "400px"
	// axisPadding widens the price axis beyond the traded range.
	axisPadding = 0.05
)

// RenderKline renders a candlestick chart with an MA20 overlay as an
// embeddable HTML snippet (a div plus its init script).
func RenderKline(spec ChartSpec) (template.HTML, error) {
	high, low, err := calculator.PriceRange(spec.Bars)
	if err != nil {
		return "", fmt.Errorf("chart %s: %w", spec.Ticker, err)
	}
	yMax, yMin := calculator.PaddedRange(high, low, axisPadding)

	dates := make([]string, len(spec.Bars))
	candles := make([]opts.KlineData, len(spec.Bars))
	ma := make([]opts.LineData, len(spec.Bars))
	for i, b := range spec.Bars {
		dates[i] = b.Time.Format("2006-01-02")
		candles[i] = opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}}
		ma[i] = opts.LineData{Value: "-"}
		if i < len(spec.MA20) && !math.IsNaN(spec.MA20[i]) {
			ma[i] = opts.LineData{Value: math.Round(spec.MA20[i]*100) / 100}
		}
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID(spec.Index, spec.Ticker),
			Width:   "100%",
			Height:  chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Price",
			Min:  math.Floor(yMin),
			Max:  math.Ceil(yMax),
		}),
	)
	kline.SetXAxis(dates).AddSeries(spec.Ticker, candles)

	line := charts.NewLine()
	line.SetXAxis(dates).AddSeries("MA 20", ma,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "orange", Width: 2}),
	)
	kline.Overlap(line)

	snippet := kline.RenderSnippet()
	return template.HTML(snippet.Element + snippet.Script), nil
}

// chartID derives a DOM id that is also a valid JS identifier. The index
// keeps ids unique when a ticker is scanned twice.
func chartID(index int, ticker string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kline_%d_", index)
	for _, r := range strings.ToLower(ticker) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
