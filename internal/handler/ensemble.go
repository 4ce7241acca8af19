package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/model"
	"github.com/avdonin/record-store/internal/repository"
)

// EnsembleHandler covers ensemble management, a director-only area.
type EnsembleHandler struct {
	Ensembles *repository.EnsembleRepo
}

func NewEnsembleHandler(ensembles *repository.EnsembleRepo) *EnsembleHandler {
	if ensembles == nil {
		panic("nil repository passed to NewEnsembleHandler")
	}
	return &EnsembleHandler{Ensembles: ensembles}
}

type ensembleReq struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	FoundedYear *int64 `json:"founded_year"`
	Country     string `json:"country"`
	Description string `json:"description"`
}

type ensembleResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	FoundedYear *int64 `json:"founded_year,omitempty"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
}

func toEnsembleResp(e model.Ensemble) ensembleResp {
	return ensembleResp{
		ID:          e.ID,
		Name:        e.Name,
		Type:        e.Type,
		FoundedYear: e.FoundedYear,
		Country:     e.Country,
		Description: e.Description,
	}
}

func (req *ensembleReq) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	if req.Name == "" {
		return "name is required"
	}
	if req.FoundedYear != nil && (*req.FoundedYear < 1000 || *req.FoundedYear > 3000) {
		return "founded_year is out of range"
	}
	return ""
}

// CreateEnsemble handles POST /v1/ensembles.
func (h *EnsembleHandler) CreateEnsemble(c echo.Context) error {
	var req ensembleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	e := model.Ensemble{
		Name:        req.Name,
		Type:        req.Type,
		FoundedYear: req.FoundedYear,
		Country:     strings.TrimSpace(req.Country),
		Description: strings.TrimSpace(req.Description),
	}
	id, err := h.Ensembles.Create(c.Request().Context(), &e)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	e.ID = id
	return c.JSON(http.StatusCreated, toEnsembleResp(e))
}

// UpdateEnsemble handles PUT /v1/ensembles/:id. A missing id is a
// 404, not a silent success.
func (h *EnsembleHandler) UpdateEnsemble(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ensemble id"})
	}
	var req ensembleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	e := model.Ensemble{
		ID:          id,
		Name:        req.Name,
		Type:        req.Type,
		FoundedYear: req.FoundedYear,
		Country:     strings.TrimSpace(req.Country),
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.Ensembles.Update(c.Request().Context(), &e); err != nil {
		if errors.Is(err, repository.ErrEnsembleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ensemble not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toEnsembleResp(e))
}

// DeleteEnsemble handles DELETE /v1/ensembles/:id.
func (h *EnsembleHandler) DeleteEnsemble(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ensemble id"})
	}
	if err := h.Ensembles.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEnsembleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ensemble not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetEnsemble handles GET /v1/ensembles/:id.
func (h *EnsembleHandler) GetEnsemble(c echo.Context) error {
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
	return c.JSON(http.StatusOK, toEnsembleResp(e))
}

// ListEnsembles handles GET /v1/ensembles.
func (h *EnsembleHandler) ListEnsembles(c echo.Context) error {
	items, err := h.Ensembles.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]ensembleResp, 0, len(items))
	for _, e := range items {
		out = append(out, toEnsembleResp(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
