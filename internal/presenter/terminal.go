package presenter

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	headerStyle = color.New(color.Bold, color.Underline)
	noticeStyle = color.New(color.FgRed, color.Bold)
	adviceStyle = color.New(color.FgYellow)
	labelStyles = map[string]*color.Color{
		ColorSwingBuy: color.New(color.FgBlack, color.BgHiGreen),
		ColorBreakout: color.New(color.FgBlack, color.BgGreen),
		ColorAvoid:    color.New(color.FgBlack, color.BgHiRed),
	}
)

const rowFormat = "%-8s %10s  %s  %7s %9s %10s\n"

// WriteTable prints the summary table followed by the chart advisories.
// Label cells are highlighted the way the dashboard colors them.
func WriteTable(w io.Writer, r Report) error {
	if r.Empty() {
		_, err := noticeStyle.Fprintln(w, NoDataNotice)
		return err
	}

	if _, err := headerStyle.Fprintf(w, rowFormat, "Ticker", "Close", fmt.Sprintf("%-17s", "Label"), "RSI", "VolRatio", "MA20"); err != nil {
		return err
	}
	for _, row := range r.Rows {
		label := fmt.Sprintf("%-17s", row.Label)
		if style, ok := labelStyles[row.Color]; ok {
			label = style.Sprint(label)
		}
		_, err := fmt.Fprintf(w, rowFormat,
			row.Ticker,
			fmt.Sprintf("%d", row.Close),
			label,
			fmt.Sprintf("%.2f", row.RSI),
			fmt.Sprintf("%.2fx", row.VolumeRatio),
			fmt.Sprintf("%d", row.MA20),
		)
		if err != nil {
			return err
		}
	}

	for _, c := range r.Charts {
		if c.Advice == "" {
			continue
		}
		if _, err := adviceStyle.Fprintf(w, "\n> %s\n", c.Advice); err != nil {
			return err
		}
	}
	return nil
}
