package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/record-store/internal/model"
)

func TestRecordRepoCreate_DuplicateCatalogNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepo(db)

	mock.ExpectExec(`INSERT INTO records`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'DG-427-123' for key 'records.catalog_number'"))

	_, err := repo.Create(context.Background(), &model.Record{
		CatalogNumber: "DG-427-123",
		Title:         "Beethoven: Symphony No. 9",
		CompanyID:     2,
	})
	assert.ErrorIs(t, err, ErrCatalogNumberExists)
}

func TestRecordRepoUpdate_MissingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepo(db)

	mock.ExpectExec(`UPDATE records SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM records WHERE id=\?\)`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.Update(context.Background(), &model.Record{
		ID:            404,
		CatalogNumber: "X-1",
		Title:         "Nothing",
		CompanyID:     1,
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// MySQL reports zero affected rows when the payload matches the stored
// row exactly; that must not be mistaken for a missing record.
func TestRecordRepoUpdate_UnchangedRowIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepo(db)

	mock.ExpectExec(`UPDATE records SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM records WHERE id=\?\)`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.Update(context.Background(), &model.Record{
		ID:            5,
		CatalogNumber: "DG-427-123",
		Title:         "Beethoven: Symphony No. 9",
		CompanyID:     2,
	})
	assert.NoError(t, err)
}

func TestRecordRepoDelete_MissingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepo(db)

	mock.ExpectExec(`DELETE FROM records WHERE id=\?`).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrRecordNotFound)
}

func TestRecordRepoDelete_OK(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepo(db)

	mock.ExpectExec(`DELETE FROM records WHERE id=\?`).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 5))
}

func TestRecordRepoSalesLeaders_LimitApplied(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepo(db)

	rows := sqlmock.NewRows([]string{
		"id", "catalog_number", "title", "company_id", "release_date",
		"wholesale_price", "retail_price", "current_stock", "sold_last_year", "sold_this_year", "rating",
		"company_name",
	}).
		AddRow(1, "DG-427-123", "Beethoven: Symphony No. 9", 2, nil, 15.50, 25.99, 50, 25, 15, nil, "Deutsche Grammophon").
		AddRow(4, "ECM-1064", "The Koln Concert", 3, nil, 10.00, 18.99, 12, 9, 9, 4.8, "ECM Records")

	mock.ExpectQuery(`sold_this_year > 0\s+ORDER BY r\.sold_this_year DESC`).
		WithArgs(10).
		WillReturnRows(rows)

	leaders, err := repo.SalesLeaders(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, leaders, 2)
	assert.Equal(t, "Beethoven: Symphony No. 9", leaders[0].Title)
	assert.Equal(t, int64(15), leaders[0].SoldThisYear)
	assert.Equal(t, "ECM Records", leaders[1].CompanyName)
	require.NotNil(t, leaders[1].Rating)
	assert.InDelta(t, 4.8, *leaders[1].Rating, 0.001)
}
