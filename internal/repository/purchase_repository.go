package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/avdonin/record-store/internal/model"
)

// PurchaseRepo owns the purchase transaction and is the sole writer
// of records.current_stock and records.sold_this_year. The check
// and the decrement must run under one transaction: callers lock
// the record row with LockRecordTx, verify stock, then insert the
// purchase and apply the stock delta before committing. Concurrent
// purchases of the same record serialize on the row lock, so stock
// can never be driven below zero.
type PurchaseRepo struct{ db *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// DB exposes the pool so handlers can begin the transaction.
func (r *PurchaseRepo) DB() *sql.DB { return r.db }

// LockRecordTx re-reads price and stock for a record under FOR
// UPDATE, blocking concurrent purchasers of the same record until
// this transaction finishes. A missing record surfaces as
// ErrRecordNotFound.
func (r *PurchaseRepo) LockRecordTx(ctx context.Context, tx *sql.Tx, recordID uint64) (retailPrice float64, stock int64, err error) {
	err = tx.QueryRowContext(ctx,
		"SELECT retail_price, current_stock FROM records WHERE id=? FOR UPDATE",
		recordID).Scan(&retailPrice, &stock)
	if err == sql.ErrNoRows {
		return 0, 0, ErrRecordNotFound
	}
	return retailPrice, stock, err
}

// InsertTx creates the purchase row inside the transaction and
// populates the generated id. Price must already be computed as
// retail_price * quantity.
func (r *PurchaseRepo) InsertTx(ctx context.Context, tx *sql.Tx, p *model.Purchase) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO purchases (user_id, record_id, quantity, price, seller_id) VALUES (?,?,?,?,?)",
		p.UserID, p.RecordID, p.Quantity, p.Price, p.SellerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ApplyStockTx decrements current_stock and increments
// sold_this_year by qty, guarded by current_stock >= qty so the
// invariant holds even if a caller skipped the locked re-check.
// Zero affected rows means the guard failed: ErrInsufficientStock.
func (r *PurchaseRepo) ApplyStockTx(ctx context.Context, tx *sql.Tx, recordID uint64, qty int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE records SET current_stock = current_stock - ?, sold_this_year = sold_this_year + ?
		 WHERE id = ? AND current_stock >= ?`,
		qty, qty, recordID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// PurchaseDetail is a purchase joined with its record for the
// personal cabinet listing.
type PurchaseDetail struct {
	ID            uint64    `json:"id"`
	RecordID      uint64    `json:"record_id"`
	CatalogNumber string    `json:"catalog_number"`
	RecordTitle   string    `json:"record_title"`
	Quantity      int64     `json:"quantity"`
	Price         float64   `json:"price"`
	PurchaseDate  time.Time `json:"purchase_date"`
}

// ListByUser returns the purchase history of a user, newest first.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID uint64) ([]PurchaseDetail, error) {
	const q = `SELECT p.id, p.record_id, r.catalog_number, r.title, p.quantity, p.price, p.purchase_date
	           FROM purchases p
	           JOIN records r ON r.id = p.record_id
	           WHERE p.user_id = ?
	           ORDER BY p.purchase_date DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PurchaseDetail, 0)
	for rows.Next() {
		var d PurchaseDetail
		if err := rows.Scan(&d.ID, &d.RecordID, &d.CatalogNumber, &d.RecordTitle,
			&d.Quantity, &d.Price, &d.PurchaseDate); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
