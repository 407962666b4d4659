package api

import (
	"embed"
	"html/template"
	"time"

	"SwingHunter/internal/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter creates a Gin engine with the dashboard, API v1 and health
// routes. Every request is bounded by timeout.
func NewRouter(handler *Handler, timeout time.Duration) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.Timeout(timeout),
	)

	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/", handler.Index)
	router.GET("/scan", handler.Dashboard)
	router.GET("/export.xlsx", handler.ExportXLSX)
	router.GET("/healthz", handler.Healthz)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/scan", handler.ScanJSON)
		v1.GET("/scan/stream", handler.ScanStream)
	}

	return router
}
