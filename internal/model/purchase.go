package model

import "time"

// Purchase records a completed sale of a record to a user. Rows are
// created only by the purchase transaction and are immutable after
// creation. Price is the total paid: retail_price * quantity at the
// time of purchase.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – buyer who made the purchase.
//  RecordID     – record that was sold.
//  Quantity     – number of units, always > 0.
//  Price        – total amount paid.
//  PurchaseDate – when the purchase was committed.
//  SellerID     – seller who processed the sale, if any (nullable;
//                 self-service purchases carry no seller).
type Purchase struct {
	ID           uint64    // purchases.id
	UserID       uint64    // purchases.user_id
	RecordID     uint64    // purchases.record_id
	Quantity     int64     // purchases.quantity
	Price        float64   // purchases.price
	PurchaseDate time.Time // purchases.purchase_date
	SellerID     *uint64   // purchases.seller_id (nullable)
}

// CartItem is a pending line in a buyer's cart (`cart` table).
// Checkout converts the whole cart into purchases inside a single
// transaction and clears it.
type CartItem struct {
	ID       uint64    // cart.id
	UserID   uint64    // cart.user_id
	RecordID uint64    // cart.record_id
	Quantity int64     // cart.quantity
	AddedAt  time.Time // cart.added_at
}
