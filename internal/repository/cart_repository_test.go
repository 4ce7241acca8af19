package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Adding is one atomic upsert against the (user_id, record_id) unique
// key. A fresh line and a merge into an existing line issue the same
// statement, so concurrent adds cannot duplicate a line.
func TestCartAdd_SingleUpsertStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM records WHERE id=\?\)`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`(?s)INSERT INTO cart \(user_id, record_id, quantity\).+ON DUPLICATE KEY UPDATE quantity = quantity \+ VALUES\(quantity\)`).
		WithArgs(uint64(4), uint64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(9, 1))

	require.NoError(t, repo.Add(context.Background(), 4, 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAdd_MergeAffectsExistingLine(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM records WHERE id=\?\)`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	// MySQL reports 2 affected rows when the upsert hit an existing line.
	mock.ExpectExec(`(?s)INSERT INTO cart .+ON DUPLICATE KEY UPDATE`).
		WithArgs(uint64(4), uint64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Add(context.Background(), 4, 1, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAdd_UnknownRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM records WHERE id=\?\)`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	assert.ErrorIs(t, repo.Add(context.Background(), 4, 404, 1), ErrRecordNotFound)
}

// Removing a line that does not exist is not an error.
func TestCartRemove_MissingLineIsFine(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepo(db)

	mock.ExpectExec(`DELETE FROM cart WHERE user_id=\? AND record_id=\?`).
		WithArgs(uint64(4), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Remove(context.Background(), 4, 1))
}
