package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"SwingHunter/internal/presenter"
)

var labelIcons = map[string]string{
	presenter.ColorSwingBuy: "✅",
	presenter.ColorBreakout: "🚀",
	presenter.ColorAvoid:    "❌",
}

// FormatDigest formats a scan report into a Telegram HTML message.
func FormatDigest(r presenter.Report, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🏹 <b>Swing Hunter</b> | %s\n\n", at.Format("2006-01-02 15:04")))

	if r.Empty() {
		b.WriteString("❌ " + presenter.NoDataNotice)
		return b.String()
	}

	for _, row := range r.Rows {
		icon, ok := labelIcons[row.Color]
		if !ok {
			icon = "➖"
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s\n", icon, html.EscapeString(row.Ticker), html.EscapeString(row.Label)))
		b.WriteString(fmt.Sprintf("   Close %d | MA20 %d | RSI %.2f | Vol %.2fx\n", row.Close, row.MA20, row.RSI, row.VolumeRatio))
	}

	var advice []string
	for _, c := range r.Charts {
		if c.Advice != "" {
			advice = append(advice, "💡 "+html.EscapeString(c.Advice))
		}
	}
	if len(advice) > 0 {
		b.WriteString("\n" + strings.Join(advice, "\n") + "\n")
	}

	b.WriteString("\n⚠️ Technical signals only. Check the broker summary before buying.")
	return b.String()
}

// FormatWatchlist lists the tickers scanned by the scheduled digest.
func FormatWatchlist(symbols []string) string {
	if len(symbols) == 0 {
		return "📋 <b>Watchlist</b> is empty"
	}
	return fmt.Sprintf("📋 <b>Watchlist</b> (%d)\n%s", len(symbols), html.EscapeString(strings.Join(symbols, ", ")))
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /scan TICKER1,TICKER2 - scan the given tickers\n" +
		"• /scan - scan the watchlist\n" +
		"• /watchlist - show the watchlist"
}
