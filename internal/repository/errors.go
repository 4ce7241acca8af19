// Package repository defines sentinel errors reused across the data
// access layer. Handlers compare against these with errors.Is to
// pick the HTTP status for a failed operation instead of inspecting
// raw driver errors.
package repository

import "errors"

// ErrUsernameExists is returned when registering or creating a user
// whose username is already taken (unique constraint on
// users.username). Handlers translate it to HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrCatalogNumberExists is returned when inserting a record whose
// catalog_number already exists. Handlers translate it to HTTP 409.
var ErrCatalogNumberExists = errors.New("catalog number already exists")

// ErrRecordNotFound is returned when a record id does not exist,
// including updates and deletes that matched zero rows. Handlers
// translate it to HTTP 404.
var ErrRecordNotFound = errors.New("record not found")

// ErrEnsembleNotFound mirrors ErrRecordNotFound for ensembles.
var ErrEnsembleNotFound = errors.New("ensemble not found")

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrInsufficientStock is returned by the purchase transaction when
// the requested quantity exceeds current_stock. The transaction is
// rolled back and the record is left untouched. Handlers translate
// it to HTTP 409.
var ErrInsufficientStock = errors.New("insufficient stock")
