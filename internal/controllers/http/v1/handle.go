package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/prachi-1604/Weather-Analysis/internal/services/analytics"
)

const defaultObservationLimit = 20

// RunRequest asks for one fetch run across a batch of locations.
type RunRequest struct {
	Locations    []string `json:"locations" example:"London,Paris"`
	ForceRefresh bool     `json:"force_refresh" example:"false"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: location"`
}

func (r *routes) handleRunFetch(c *fiber.Ctx) error {
	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	locations := make([]string, 0, len(req.Locations))
	for _, location := range req.Locations {
		if trimmed := strings.TrimSpace(location); trimmed != "" {
			locations = append(locations, trimmed)
		}
	}
	if len(locations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "At least one location is required",
		})
	}

	summary, err := r.collector.Run(c.Context(), locations, req.ForceRefresh)
	if err != nil {
		r.l.Error(err, map[string]any{"locations": locations})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to complete fetch run",
		})
	}

	return c.JSON(summary)
}

func (r *routes) handleObservations(c *fiber.Ctx) error {
	location := c.Query("location")

	limit := defaultObservationLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		} else {
			r.l.Warning("invalid limit parameter, using default", map[string]any{
				"provided": raw,
				"default":  limit,
			})
		}
	}

	observations, err := r.analytics.RecentLogs(c.Context(), location, limit)
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: analytics.ErrNoData.Error(),
			})
		}
		r.l.Error(err, map[string]any{"location": location})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to load observations",
		})
	}

	return c.JSON(observations)
}

func (r *routes) handleAverages(c *fiber.Ctx) error {
	averages, err := r.analytics.Averages(c.Context())
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: analytics.ErrNoData.Error(),
			})
		}
		r.l.Error(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to compute averages",
		})
	}

	return c.JSON(averages)
}

func (r *routes) handleExtremes(c *fiber.Ctx) error {
	report, err := r.analytics.Extremes(c.Context(), time.Now())
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: analytics.ErrNoData.Error(),
			})
		}
		r.l.Error(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to compute extremes",
		})
	}

	return c.JSON(report)
}

func (r *routes) handleTrend(c *fiber.Ctx) error {
	location := c.Query("location")
	if location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: location",
		})
	}

	series, err := r.analytics.Trend(c.Context(), location)
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: analytics.ErrNoData.Error(),
			})
		}
		r.l.Error(err, map[string]any{"location": location})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to compute trend series",
		})
	}

	return c.JSON(series)
}
