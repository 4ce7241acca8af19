// Package queue defines message payloads exchanged over the message broker.
package queue

// PurchaseCompletedEvent is published after a purchase transaction
// commits. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type PurchaseCompletedEvent struct {
	PurchaseID    uint64  `json:"purchase_id"`
	UserID        uint64  `json:"user_id"`
	Username      string  `json:"username"`
	RecordID      uint64  `json:"record_id"`
	CatalogNumber string  `json:"catalog_number"`
	RecordTitle   string  `json:"record_title"`
	Quantity      int64   `json:"quantity"`
	Price         float64 `json:"price"`
	StockLeft     int64   `json:"stock_left"`
	CompletedAt   string  `json:"completed_at"`
}
