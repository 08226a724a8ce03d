package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/video-summarizer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	summaryHandler *Summary
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, summaryHandler *Summary) *Router {
	return &Router{
		cfg:            cfg,
		summaryHandler: summaryHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	rt.setupSummaryRoutes(e)

	v1 := e.Group("/api/v1")
	rt.setupAPIRoutes(v1)
}

// setupSummaryRoutes configures the upload and polling routes
func (rt *Router) setupSummaryRoutes(e *echo.Echo) {
	if rt.summaryHandler == nil {
		e.POST("/upload", rt.notImplemented)
		return
	}

	e.POST("/upload", rt.summaryHandler.Upload)
	e.GET("/status/:id", rt.summaryHandler.Status)
	e.GET("/result/:id", rt.summaryHandler.Result)
	e.GET("/download/:id", rt.summaryHandler.Download)
	e.GET("/download_original/:id", rt.summaryHandler.DownloadOriginal)
	e.GET("/video/:id/:type", rt.summaryHandler.Video)
	e.GET("/info/:id", rt.summaryHandler.Info)
}

// setupAPIRoutes configures the programmatic API
func (rt *Router) setupAPIRoutes(g *echo.Group) {
	if rt.summaryHandler == nil {
		g.POST("/summarize", rt.notImplemented)
		return
	}

	g.POST("/summarize", rt.summaryHandler.APISummarize)
	g.GET("/status/:id", rt.summaryHandler.Status)
	g.GET("/jobs", rt.summaryHandler.List)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "production"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
		"time":        time.Now().Format(time.RFC3339),
	})
}
