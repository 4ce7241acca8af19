package repository

import (
	"context"
	"database/sql"

	"github.com/avdonin/record-store/internal/model"
)

// CartRepo manages per-buyer cart rows. A cart holds at most one
// row per (user, record); adding the same record again merges into
// the existing row's quantity.
type CartRepo struct{ db *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is a cart item joined with its record so the client can
// render title, unit price and available stock without extra calls.
type CartLine struct {
	RecordID      uint64  `json:"record_id"`
	CatalogNumber string  `json:"catalog_number"`
	Title         string  `json:"title"`
	RetailPrice   float64 `json:"retail_price"`
	CurrentStock  int64   `json:"current_stock"`
	Quantity      int64   `json:"quantity"`
	LineTotal     float64 `json:"line_total"`
}

// ListByUser returns the cart contents with line totals.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]CartLine, error) {
	const q = `SELECT c.record_id, r.catalog_number, r.title, r.retail_price, r.current_stock,
	                  c.quantity, c.quantity * r.retail_price
	           FROM cart c
	           JOIN records r ON r.id = c.record_id
	           WHERE c.user_id = ?
	           ORDER BY c.added_at, c.record_id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CartLine, 0)
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.RecordID, &l.CatalogNumber, &l.Title, &l.RetailPrice,
			&l.CurrentStock, &l.Quantity, &l.LineTotal); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Add puts qty of a record into the user's cart, merging with an
// existing line for the same record. The record must exist.
func (r *CartRepo) Add(ctx context.Context, userID, recordID uint64, qty int64) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM records WHERE id=?)", recordID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRecordNotFound
	}
	// The unique key on (user_id, record_id) makes this a single atomic
	// upsert, so concurrent adds merge instead of duplicating the line.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart (user_id, record_id, quantity) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, recordID, qty)
	return err
}

// Remove deletes one record line from the cart. Removing a record
// that is not in the cart is not an error.
func (r *CartRepo) Remove(ctx context.Context, userID, recordID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM cart WHERE user_id=? AND record_id=?", userID, recordID)
	return err
}

// ItemsTx reads the cart inside a checkout transaction.
func (r *CartRepo) ItemsTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]model.CartItem, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, user_id, record_id, quantity, added_at FROM cart WHERE user_id=? ORDER BY record_id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.RecordID, &it.Quantity, &it.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ClearTx empties the cart after a successful checkout.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart WHERE user_id=?", userID)
	return err
}
