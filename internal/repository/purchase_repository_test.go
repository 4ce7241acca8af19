package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/record-store/internal/model"
)

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return tx
}

func TestLockRecordTx_ReturnsPriceAndStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`SELECT retail_price, current_stock FROM records WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"retail_price", "current_stock"}).AddRow(25.99, 50))

	price, stock, err := repo.LockRecordTx(context.Background(), tx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 25.99, price, 0.001)
	assert.Equal(t, int64(50), stock)
}

func TestLockRecordTx_MissingRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.LockRecordTx(context.Background(), tx, 404)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestInsertTx_PopulatesID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`INSERT INTO purchases \(user_id, record_id, quantity, price, seller_id\)`).
		WithArgs(uint64(4), uint64(1), int64(2), 51.98, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))

	p := model.Purchase{UserID: 4, RecordID: 1, Quantity: 2, Price: 51.98}
	require.NoError(t, repo.InsertTx(context.Background(), tx, &p))
	assert.Equal(t, uint64(11), p.ID)
}

func TestApplyStockTx_DecrementsWithinGuard(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`UPDATE records SET current_stock = current_stock - \?, sold_this_year = sold_this_year \+ \?`).
		WithArgs(int64(50), int64(50), uint64(1), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.ApplyStockTx(context.Background(), tx, 1, 50))
}

// The guard clause keeps stock non-negative even if the caller's
// earlier check was skipped or raced.
func TestApplyStockTx_GuardRejectsOverdraw(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPurchaseRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`current_stock >= \?`).
		WithArgs(int64(51), int64(51), uint64(1), int64(51)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.ApplyStockTx(context.Background(), tx, 1, 51), ErrInsufficientStock)
}
