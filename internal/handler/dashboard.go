package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/feed"
)

// DashboardHandler serves the public dashboard feed: the headline totals
// and the per-day generation series the chart layer renders. Data comes
// straight from the scraper CSV, re-read on every request so a scrape that
// just finished is visible immediately.
type DashboardHandler struct {
	CSVPath string
}

func NewDashboardHandler(csvPath string) *DashboardHandler {
	return &DashboardHandler{CSVPath: csvPath}
}

// Summary handles GET /v1/dashboard/summary: cumulative kWh since
// commissioning, last CO2/trees snapshot and the last update time.
func (h *DashboardHandler) Summary(c echo.Context) error {
	rows, err := feed.ParseFile(h.CSVPath)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "dashboard data unavailable"})
	}
	sum, err := feed.Latest(rows)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "dashboard data unavailable"})
	}
	return c.JSON(http.StatusOK, sum)
}

// Daily handles GET /v1/dashboard/daily: one point per calendar day, last
// sample of the day, ascending. This backs the generation bar chart.
func (h *DashboardHandler) Daily(c echo.Context) error {
	rows, err := feed.ParseFile(h.CSVPath)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "dashboard data unavailable"})
	}
	points := feed.Daily(rows)
	if points == nil {
		points = []feed.DayPoint{}
	}
	return c.JSON(http.StatusOK, echo.Map{"days": points})
}
