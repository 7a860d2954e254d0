package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prachi-1604/Weather-Analysis/internal/services/analytics"
	"github.com/prachi-1604/Weather-Analysis/internal/services/collector"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

type routes struct {
	collector *collector.Service
	analytics *analytics.Service
	l         *logger.Logger
}

func NewRouter(
	app *fiber.App,
	collectorService *collector.Service,
	analyticsService *analytics.Service,
	l *logger.Logger,
) {
	r := &routes{
		collector: collectorService,
		analytics: analyticsService,
		l:         l,
	}

	api := app.Group("/api/v1")

	api.Post("/runs", r.handleRunFetch)
	api.Get("/observations", r.handleObservations)
	api.Get("/analytics/averages", r.handleAverages)
	api.Get("/analytics/extremes", r.handleExtremes)
	api.Get("/analytics/trend", r.handleTrend)
}
