package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/model"
	"github.com/avdonin/record-store/internal/repository"
)

// RecordHandler covers record management for sellers and the
// director. Role checks happen in middleware; handlers only assume an
// authenticated caller.
type RecordHandler struct {
	Records *repository.RecordRepo
}

func NewRecordHandler(records *repository.RecordRepo) *RecordHandler {
	if records == nil {
		panic("nil repository passed to NewRecordHandler")
	}
	return &RecordHandler{Records: records}
}

type recordReq struct {
	CatalogNumber  string   `json:"catalog_number"`
	Title          string   `json:"title"`
	CompanyID      uint64   `json:"company_id"`
	ReleaseDate    *string  `json:"release_date"` // "2006-01-02"
	WholesalePrice float64  `json:"wholesale_price"`
	RetailPrice    float64  `json:"retail_price"`
	CurrentStock   int64    `json:"current_stock"`
	SoldLastYear   int64    `json:"sold_last_year"`
	SoldThisYear   int64    `json:"sold_this_year"`
	Rating         *float64 `json:"rating"`
}

type recordResp struct {
	ID             uint64   `json:"id"`
	CatalogNumber  string   `json:"catalog_number"`
	Title          string   `json:"title"`
	CompanyID      uint64   `json:"company_id"`
	CompanyName    string   `json:"company_name,omitempty"`
	ReleaseDate    *string  `json:"release_date,omitempty"`
	WholesalePrice float64  `json:"wholesale_price"`
	RetailPrice    float64  `json:"retail_price"`
	CurrentStock   int64    `json:"current_stock"`
	SoldLastYear   int64    `json:"sold_last_year"`
	SoldThisYear   int64    `json:"sold_this_year"`
	Rating         *float64 `json:"rating,omitempty"`
}

func toRecordResp(rec model.Record, companyName string) recordResp {
	out := recordResp{
		ID:             rec.ID,
		CatalogNumber:  rec.CatalogNumber,
		Title:          rec.Title,
		CompanyID:      rec.CompanyID,
		CompanyName:    companyName,
		WholesalePrice: rec.WholesalePrice,
		RetailPrice:    rec.RetailPrice,
		CurrentStock:   rec.CurrentStock,
		SoldLastYear:   rec.SoldLastYear,
		SoldThisYear:   rec.SoldThisYear,
		Rating:         rec.Rating,
	}
	if rec.ReleaseDate != nil {
		d := rec.ReleaseDate.Format("2006-01-02")
		out.ReleaseDate = &d
	}
	return out
}

// validate checks the payload and parses the release date. Prices and
// stock counters must be non-negative; a record priced below cost is
// a data entry mistake we reject outright.
func (req *recordReq) validate() (*time.Time, string) {
	req.CatalogNumber = strings.TrimSpace(req.CatalogNumber)
	req.Title = strings.TrimSpace(req.Title)
	if req.CatalogNumber == "" || req.Title == "" {
		return nil, "catalog_number and title are required"
	}
	if req.CompanyID == 0 {
		return nil, "company_id is required"
	}
	if req.WholesalePrice < 0 || req.RetailPrice < 0 {
		return nil, "prices must be non-negative"
	}
	if req.CurrentStock < 0 || req.SoldLastYear < 0 || req.SoldThisYear < 0 {
		return nil, "stock counters must be non-negative"
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		return nil, "rating must be between 0 and 10"
	}
	var release *time.Time
	if req.ReleaseDate != nil && *req.ReleaseDate != "" {
		t, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			return nil, "release_date must be YYYY-MM-DD"
		}
		release = &t
	}
	return release, ""
}

// CreateRecord handles POST /v1/records.
func (h *RecordHandler) CreateRecord(c echo.Context) error {
	var req recordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	release, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	rec := model.Record{
		CatalogNumber:  req.CatalogNumber,
		Title:          req.Title,
		CompanyID:      req.CompanyID,
		ReleaseDate:    release,
		WholesalePrice: req.WholesalePrice,
		RetailPrice:    req.RetailPrice,
		CurrentStock:   req.CurrentStock,
		SoldLastYear:   req.SoldLastYear,
		SoldThisYear:   req.SoldThisYear,
		Rating:         req.Rating,
	}
	id, err := h.Records.Create(c.Request().Context(), &rec)
	if err != nil {
		if errors.Is(err, repository.ErrCatalogNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "catalog number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rec.ID = id
	return c.JSON(http.StatusCreated, toRecordResp(rec, ""))
}

// UpdateRecord handles PUT /v1/records/:id. Only descriptive fields
// change here; stock and sales counters belong to the purchase
// transaction. Updating a missing id is reported as 404, not treated
// as a success.
func (h *RecordHandler) UpdateRecord(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}
	var req recordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	release, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	rec := model.Record{
		ID:             id,
		CatalogNumber:  req.CatalogNumber,
		Title:          req.Title,
		CompanyID:      req.CompanyID,
		ReleaseDate:    release,
		WholesalePrice: req.WholesalePrice,
		RetailPrice:    req.RetailPrice,
		Rating:         req.Rating,
	}
	if err := h.Records.Update(c.Request().Context(), &rec); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		case errors.Is(err, repository.ErrCatalogNumberExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "catalog number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	full, err := h.Records.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toRecordResp(full, ""))
}

// DeleteRecord handles DELETE /v1/records/:id. Deleting a missing id
// is a 404.
func (h *RecordHandler) DeleteRecord(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}
	if err := h.Records.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetRecord handles GET /v1/records/:id.
func (h *RecordHandler) GetRecord(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}
	rec, err := h.Records.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toRecordResp(rec, ""))
}

// ListRecords handles GET /v1/records: the full inventory including
// out-of-stock items, for staff.
func (h *RecordHandler) ListRecords(c echo.Context) error {
	rows, err := h.Records.ListWithCompany(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]recordResp, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRecordResp(row.Record, row.CompanyName))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
