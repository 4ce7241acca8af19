package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/repository"
)

// CartHandler covers the buyer's cart. The cart is a staging area
// only: nothing here touches stock, so stale carts never pin
// inventory. Stock is checked when the cart is checked out.
type CartHandler struct {
	Cart *repository.CartRepo
}

func NewCartHandler(cart *repository.CartRepo) *CartHandler {
	if cart == nil {
		panic("nil repository passed to NewCartHandler")
	}
	return &CartHandler{Cart: cart}
}

// GetCart handles GET /v1/cart.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lines, err := h.Cart.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var total float64
	for _, l := range lines {
		total += l.LineTotal
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines, "total": total})
}

// AddToCart handles POST /v1/cart/:record_id with an optional
// {"quantity": n} body, defaulting to 1. Adding a record already in
// the cart merges the quantities.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	recordID, ok := pathID(c, "record_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}
	var body struct {
		Quantity int64 `json:"quantity"`
	}
	_ = c.Bind(&body)
	if body.Quantity == 0 {
		body.Quantity = 1
	}
	if body.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	if err := h.Cart.Add(c.Request().Context(), userID, recordID, body.Quantity); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveFromCart handles DELETE /v1/cart/:record_id. Removing a line
// that is not there still succeeds.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	recordID, ok := pathID(c, "record_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}
	if err := h.Cart.Remove(c.Request().Context(), userID, recordID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
