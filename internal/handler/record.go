package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/middleware"
	"github.com/lucasmtls/energy-monitor/internal/repository"
)

// RecordHandler is the single record management surface, mounted once for
// both roles. The original system carried three near-identical copies of
// this workflow (admin page, user page, legacy page); here add, view, edit
// and delete exist exactly once.
type RecordHandler struct {
	Records *repository.RecordRepo
	Cache   *middleware.ResponseCache
}

func NewRecordHandler(r *repository.RecordRepo, cache *middleware.ResponseCache) *RecordHandler {
	return &RecordHandler{Records: r, Cache: cache}
}

type recordReq struct {
	Date        string  `json:"date"`
	CO2         float64 `json:"co2"`
	Trees       int64   `json:"trees"`
	TotalEnergy float64 `json:"total_energy"`
	DailyEnergy float64 `json:"daily_energy"`
}

// validate reproduces the input-widget constraints of the original forms:
// a calendar date and four non-negative numbers. The store layer does not
// re-validate, so this is the only gate.
func (r recordReq) validate() string {
	if _, err := time.Parse(repository.DateLayout, r.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if r.CO2 < 0 || r.TotalEnergy < 0 || r.DailyEnergy < 0 {
		return "energy and co2 values must not be negative"
	}
	if r.Trees < 0 {
		return "trees must not be negative"
	}
	return ""
}

// Create handles POST /v1/records: the "add record" form.
func (h *RecordHandler) Create(c echo.Context) error {
	var req recordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec := repository.EnergyRecord{
		Date:        req.Date,
		CO2:         req.CO2,
		Trees:       req.Trees,
		TotalEnergy: req.TotalEnergy,
		DailyEnergy: req.DailyEnergy,
	}
	if err := h.Records.Create(ctx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save record failed"})
	}
	h.Cache.Invalidate(ctx)

	return c.JSON(http.StatusCreated, rec)
}

// List handles GET /v1/records. Rows come back in descending date order;
// the first row is the latest record. Every call hits the store, there is
// no app-side snapshot to go stale.
func (h *RecordHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Records.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list records failed"})
	}
	if records == nil {
		records = []repository.EnergyRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"records": records})
}

// Get handles GET /v1/records/:id, used to pre-fill the edit form.
func (h *RecordHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Records.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load record failed"})
	}
	return c.JSON(http.StatusOK, rec)
}

// Update handles PUT /v1/records/:id, a full overwrite of all five fields.
// When another session deleted the selected record in the meantime the
// answer is 404 so the client re-fetches the list, never a silent no-op.
func (h *RecordHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req recordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec := repository.EnergyRecord{
		ID:          id,
		Date:        req.Date,
		CO2:         req.CO2,
		Trees:       req.Trees,
		TotalEnergy: req.TotalEnergy,
		DailyEnergy: req.DailyEnergy,
	}
	if err := h.Records.Update(ctx, &rec); err != nil {
		if err == repository.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update record failed"})
	}
	h.Cache.Invalidate(ctx)

	return c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /v1/records/:id.
func (h *RecordHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Records.Delete(ctx, id); err != nil {
		if err == repository.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete record failed"})
	}
	h.Cache.Invalidate(ctx)

	return c.NoContent(http.StatusNoContent)
}
