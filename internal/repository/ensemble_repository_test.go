package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdonin/record-store/internal/model"
)

func TestEnsembleRepoUpdate_MissingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnsembleRepo(db)

	mock.ExpectExec(`UPDATE ensembles SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM ensembles WHERE id=\?\)`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.Update(context.Background(), &model.Ensemble{
		ID:   404,
		Name: "Nobody",
		Type: "quartet",
	})
	assert.ErrorIs(t, err, ErrEnsembleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Zero affected rows with an existing id means the payload matched the
// stored row; that is a successful no-op, not a missing ensemble.
func TestEnsembleRepoUpdate_UnchangedRowIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnsembleRepo(db)

	mock.ExpectExec(`UPDATE ensembles SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM ensembles WHERE id=\?\)`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.Update(context.Background(), &model.Ensemble{
		ID:   3,
		Name: "Berlin Philharmonic",
		Type: "orchestra",
	})
	assert.NoError(t, err)
}

func TestEnsembleRepoDelete_MissingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnsembleRepo(db)

	mock.ExpectExec(`DELETE FROM ensembles WHERE id=\?`).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrEnsembleNotFound)
}

func TestEnsembleRepoDelete_OK(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnsembleRepo(db)

	mock.ExpectExec(`DELETE FROM ensembles WHERE id=\?`).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 3))
}

func TestEnsembleRepoGetByID_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnsembleRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM ensembles WHERE id=\?`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "founded_year", "country", "description"}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrEnsembleNotFound)
}

func TestEnsembleRepoGetByID_NullableFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnsembleRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM ensembles WHERE id=\?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "founded_year", "country", "description"}).
			AddRow(3, "Berlin Philharmonic", "orchestra", 1882, "Germany", nil))

	e, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Berlin Philharmonic", e.Name)
	require.NotNil(t, e.FoundedYear)
	assert.Equal(t, int64(1882), *e.FoundedYear)
	assert.Empty(t, e.Description)
}
