package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

const insertUserQ = `INSERT INTO users \(username, password_hash, role, full_name, email, phone\) VALUES \(\?,\?,\?,\?,\?,\?\)`

func TestUserRepoCreate_NormalizesUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(insertUserQ).
		WithArgs("newbuyer", sqlmock.AnyArg(), "buyer", "New Buyer", nil, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), "  NewBuyer ", "pw", "buyer", "New Buyer", nil, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreate_DuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(insertUserQ).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'buyer1' for key 'users.username'"))

	_, err := repo.Create(context.Background(), "buyer1", "pw", "buyer", "Buyer One", nil, nil, 4)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserRepoGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "full_name", "email", "phone", "created_at", "is_active"}).
		AddRow(3, "seller1", "$2a$10$hash", "seller", "Seller One", "s1@store.example", nil, created, true)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1")).
		WithArgs("seller1").
		WillReturnRows(rows)

	u, err := repo.GetByUsername(context.Background(), " Seller1 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.ID)
	assert.Equal(t, "seller", u.Role)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.Email)
	assert.Equal(t, "s1@store.example", *u.Email)
	assert.Nil(t, u.Phone)
}

func TestUserRepoGetByUsername_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username=\?`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepoSetActive_MissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`UPDATE users SET is_active=\? WHERE id=\?`).
		WithArgs(false, uint64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), 999, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepoSetActive_OK(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`UPDATE users SET is_active=\? WHERE id=\?`).
		WithArgs(true, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetActive(context.Background(), 4, true))
}
