package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/model"
	"github.com/avdonin/record-store/internal/queue"
	"github.com/avdonin/record-store/internal/repository"
	queue_publisher "github.com/avdonin/record-store/internal/service"
	"github.com/avdonin/record-store/pkg/logger"
)

// PurchaseHandler runs the purchase transaction for buyers. Every
// sale is check-and-decrement inside one database transaction: the
// record row is locked, stock re-read, and the purchase insert plus
// stock update either all commit or all roll back. A record can
// therefore never be oversold, no matter how many buyers race.
type PurchaseHandler struct {
	Purchases *repository.PurchaseRepo
	Cart      *repository.CartRepo
	Records   *repository.RecordRepo
	Users     *repository.UserRepo

	// Publish emits the post-commit event; swappable in tests.
	Publish func(ctx context.Context, ev queue.PurchaseCompletedEvent) error
}

func NewPurchaseHandler(purchases *repository.PurchaseRepo, cart *repository.CartRepo, records *repository.RecordRepo, users *repository.UserRepo) *PurchaseHandler {
	if purchases == nil || cart == nil || records == nil || users == nil {
		panic("nil repository passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{
		Purchases: purchases,
		Cart:      cart,
		Records:   records,
		Users:     users,
		Publish:   queue_publisher.PublishPurchaseCompleted,
	}
}

type purchaseReq struct {
	RecordID uint64 `json:"record_id"`
	Quantity int64  `json:"quantity"`
}

type purchaseResp struct {
	PurchaseID uint64  `json:"purchase_id"`
	RecordID   uint64  `json:"record_id"`
	Quantity   int64   `json:"quantity"`
	Price      float64 `json:"price"`
	StockLeft  int64   `json:"stock_left"`
}

// Purchase handles POST /v1/purchases: buy one record directly,
// bypassing the cart.
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RecordID == 0 || req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record_id and positive quantity required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Purchases.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	line, err := h.purchaseLineTx(ctx, tx, userID, req.RecordID, req.Quantity)
	if err != nil {
		return purchaseError(c, err)
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.publishCompleted(ctx, userID, line)
	return c.JSON(http.StatusCreated, line)
}

// Checkout handles POST /v1/cart/checkout: every cart line becomes a
// purchase inside one transaction. If any line cannot be satisfied
// the whole checkout rolls back and the cart is left untouched; on
// success the cart is cleared.
func (h *PurchaseHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	tx, err := h.Purchases.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	items, err := h.Cart.ItemsTx(ctx, tx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
	}

	lines := make([]purchaseResp, 0, len(items))
	var total float64
	for _, it := range items {
		line, err := h.purchaseLineTx(ctx, tx, userID, it.RecordID, it.Quantity)
		if err != nil {
			return purchaseError(c, err)
		}
		lines = append(lines, line)
		total += line.Price
	}
	if err := h.Cart.ClearTx(ctx, tx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	for _, line := range lines {
		h.publishCompleted(ctx, userID, line)
	}
	return c.JSON(http.StatusCreated, echo.Map{"purchases": lines, "total": total})
}

// MyPurchases handles GET /v1/my-purchases: the buyer's personal
// cabinet, newest purchases first.
func (h *PurchaseHandler) MyPurchases(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Purchases.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// purchaseLineTx executes one sale inside an open transaction: lock
// the record row, verify stock, insert the purchase and apply the
// stock delta. Callers translate the returned sentinels into HTTP
// statuses and roll back.
func (h *PurchaseHandler) purchaseLineTx(ctx context.Context, tx *sql.Tx, userID, recordID uint64, qty int64) (purchaseResp, error) {
	retail, stock, err := h.Purchases.LockRecordTx(ctx, tx, recordID)
	if err != nil {
		return purchaseResp{}, err
	}
	if stock < qty {
		return purchaseResp{}, repository.ErrInsufficientStock
	}

	p := model.Purchase{
		UserID:   userID,
		RecordID: recordID,
		Quantity: qty,
		Price:    retail * float64(qty),
	}
	if err := h.Purchases.InsertTx(ctx, tx, &p); err != nil {
		return purchaseResp{}, err
	}
	if err := h.Purchases.ApplyStockTx(ctx, tx, recordID, qty); err != nil {
		return purchaseResp{}, err
	}
	return purchaseResp{
		PurchaseID: p.ID,
		RecordID:   recordID,
		Quantity:   qty,
		Price:      p.Price,
		StockLeft:  stock - qty,
	}, nil
}

func purchaseError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, repository.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// publishCompleted emits purchase.completed after the transaction has
// committed. The event is best effort: a broker outage is logged and
// the sale stands.
func (h *PurchaseHandler) publishCompleted(ctx context.Context, userID uint64, line purchaseResp) {
	ev := queue.PurchaseCompletedEvent{
		PurchaseID:  line.PurchaseID,
		UserID:      userID,
		RecordID:    line.RecordID,
		Quantity:    line.Quantity,
		Price:       line.Price,
		StockLeft:   line.StockLeft,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, userID); err == nil {
		ev.Username = u.Username
	}
	if rec, err := h.Records.GetByID(ctx, line.RecordID); err == nil {
		ev.CatalogNumber = rec.CatalogNumber
		ev.RecordTitle = rec.Title
	}
	if err := h.Publish(ctx, ev); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Uint64("purchase_id", ev.PurchaseID).Msg("publish purchase.completed failed")
	}
}
