package api

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SwingHunter/internal/dto"
	"SwingHunter/internal/logger"
	"SwingHunter/internal/presenter"
	"SwingHunter/internal/scanner"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the dashboard, the scan API and the XLSX export.
// Every request runs its own scan; handlers share no mutable state.
type Handler struct {
	scanner        *scanner.Scanner
	defaultTickers string
}

// NewHandler constructs a Handler. defaultTickers pre-fills the form and
// is scanned when a request carries no tickers parameter.
func NewHandler(sc *scanner.Scanner, defaultTickers string) *Handler {
	return &Handler{scanner: sc, defaultTickers: defaultTickers}
}

type chartView struct {
	Snippet template.HTML
	Advice  string
	Kind    string
	Icon    string
}

// headerView is a sortable column header of the results table.
type headerView struct {
	Label string
	Href  string
	Arrow string
}

type dashboardView struct {
	Tickers      string
	Scanned      bool
	Report       presenter.Report
	Headers      []headerView
	Sorted       bool
	RankHref     string
	Columns      [2][]chartView
	NoDataNotice string
	EchartsAsset string
}

var headerLabels = map[string]string{
	"ticker":       "Ticker",
	"close":        "Close",
	"label":        "Label",
	"rsi":          "RSI",
	"volume_ratio": "Vol Ratio",
	"ma20":         "MA20",
}

// Index handles GET / with the scan form and the reading instructions.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", dashboardView{
		Tickers:      h.defaultTickers,
		EchartsAsset: presenter.EchartsAsset,
	})
}

// Dashboard handles GET /scan?tickers=...&sort=...&order=... and renders
// the table and the charts of every positive signal. The table follows
// the rank order unless sort names a column; charts always do.
func (h *Handler) Dashboard(c *gin.Context) {
	input := h.tickerInput(c)
	report := h.scan(c, input)

	key := c.Query("sort")
	if !presenter.ValidSortKey(key) {
		key = ""
	}
	desc := c.Query("order") == "desc"
	report.Rows = presenter.SortRows(report.Rows, key, desc)

	view := dashboardView{
		Tickers:      input,
		Scanned:      true,
		Report:       report,
		Headers:      sortHeaders(input, key, desc),
		Sorted:       key != "",
		RankHref:     scanHref(input, "", false),
		NoDataNotice: presenter.NoDataNotice,
		EchartsAsset: presenter.EchartsAsset,
	}
	for _, spec := range report.Charts {
		snippet, err := presenter.RenderKline(spec)
		if err != nil {
			logger.L().Warn().Err(err).Str("ticker", spec.Ticker).Msg("chart render failed")
			continue
		}
		cv := chartView{Snippet: snippet, Advice: spec.Advice, Kind: "success", Icon: "💡"}
		if strings.Contains(spec.Label, "BREAKOUT") {
			cv.Kind, cv.Icon = "warning", "🔥"
		}
		view.Columns[spec.Column] = append(view.Columns[spec.Column], cv)
	}
	c.HTML(http.StatusOK, "dashboard.html", view)
}

// ScanJSON handles GET /api/v1/scan?tickers=... and returns the report.
// An empty report is a normal 200 response.
func (h *Handler) ScanJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.scan(c, h.tickerInput(c)))
}

// ScanStream handles GET /api/v1/scan/stream?tickers=... as server-sent
// events: one "progress" event per ticker, then a single "result".
func (h *Handler) ScanStream(c *gin.Context) {
	input := h.tickerInput(c)
	symbols := scanner.ParseTickers(input, h.scanner.MarketSuffix)

	events := make(chan scanner.Progress, len(symbols))
	done := make(chan presenter.Report, 1)
	go func() {
		results := h.scanner.Scan(c.Request.Context(), symbols, func(p scanner.Progress) { events <- p })
		close(events)
		done <- presenter.Build(results)
	}()

	c.Stream(func(w io.Writer) bool {
		if p, ok := <-events; ok {
			c.SSEvent("progress", gin.H{
				"done":     p.Done,
				"total":    p.Total,
				"symbol":   p.Symbol,
				"fraction": p.Fraction(),
			})
			return true
		}
		c.SSEvent("result", <-done)
		return false
	})
}

// ExportXLSX handles GET /export.xlsx?tickers=... and downloads the table.
func (h *Handler) ExportXLSX(c *gin.Context) {
	report := h.scan(c, h.tickerInput(c))
	data, err := presenter.ExportXLSX(report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to export workbook", err))
		return
	}
	name := fmt.Sprintf("swinghunter-%s.xlsx", report.GeneratedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// tickerInput returns the raw tickers parameter, or the default list when
// the parameter is absent. A present but blank parameter stays blank.
func (h *Handler) tickerInput(c *gin.Context) string {
	if v, ok := c.GetQuery("tickers"); ok {
		return v
	}
	return h.defaultTickers
}

// sortHeaders links every column header to its sorted view. Clicking the
// active ascending column flips it to descending.
func sortHeaders(input, active string, desc bool) []headerView {
	headers := make([]headerView, 0, len(presenter.SortKeys))
	for _, key := range presenter.SortKeys {
		hv := headerView{Label: headerLabels[key], Href: scanHref(input, key, false)}
		if key == active {
			hv.Arrow = "▲"
			if desc {
				hv.Arrow = "▼"
			} else {
				hv.Href = scanHref(input, key, true)
			}
		}
		headers = append(headers, hv)
	}
	return headers
}

func scanHref(input, key string, desc bool) string {
	q := url.Values{"tickers": {input}}
	if key != "" {
		q.Set("sort", key)
		order := "asc"
		if desc {
			order = "desc"
		}
		q.Set("order", order)
	}
	return "/scan?" + q.Encode()
}

func (h *Handler) scan(c *gin.Context, input string) presenter.Report {
	symbols := scanner.ParseTickers(input, h.scanner.MarketSuffix)
	results := h.scanner.Scan(c.Request.Context(), symbols, nil)
	return presenter.Build(results)
}
