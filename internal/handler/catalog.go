// This file defines the read-only catalog endpoints available to any
// authenticated role: the in-stock listing, store statistics, sales
// leaders and per-ensemble browsing. These are the routes fronted by
// the response cache.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/repository"
)

const salesLeadersLimit = 10

// CatalogHandler aggregates the repositories needed for browsing.
type CatalogHandler struct {
	Records   *repository.RecordRepo
	Ensembles *repository.EnsembleRepo
	Catalog   *repository.CatalogRepo
}

func NewCatalogHandler(records *repository.RecordRepo, ensembles *repository.EnsembleRepo, catalog *repository.CatalogRepo) *CatalogHandler {
	if records == nil || ensembles == nil || catalog == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Records: records, Ensembles: ensembles, Catalog: catalog}
}

// GetCatalog handles GET /v1/catalog: records currently in stock,
// ordered by title. Out-of-stock records are simply absent rather
// than flagged.
func (h *CatalogHandler) GetCatalog(c echo.Context) error {
	rows, err := h.Records.ListInStock(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]recordResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRecordResp(row.Record, row.CompanyName))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetStats handles GET /v1/stats.
func (h *CatalogHandler) GetStats(c echo.Context) error {
	s, err := h.Catalog.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, s)
}

// GetSalesLeaders handles GET /v1/sales-leaders: the ten best-selling
// records of the current year, best first. Records with zero sales
// this year never appear, so a fresh store returns an empty list.
func (h *CatalogHandler) GetSalesLeaders(c echo.Context) error {
	rows, err := h.Records.SalesLeaders(c.Request().Context(), salesLeadersLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]recordResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRecordResp(row.Record, row.CompanyName))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEnsembleCompositions handles GET /v1/ensembles/:id/compositions.
func (h *CatalogHandler) GetEnsembleCompositions(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ensemble id"})
	}
	e, err := h.Ensembles.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEnsembleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ensemble not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Catalog.CompositionsByEnsemble(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ensemble": e.Name, "items": items})
}

// GetEnsembleRecords handles GET /v1/ensembles/:id/records.
func (h *CatalogHandler) GetEnsembleRecords(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ensemble id"})
	}
	e, err := h.Ensembles.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEnsembleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ensemble not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Catalog.RecordsByEnsemble(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ensemble": e.Name, "items": items})
}
