// Package storage implements the Postgres persistence for users, cargo
// listings and channel configuration on top of sqlx.
package storage

import "errors"

// ErrNotFound is returned when a referenced user or listing does not exist.
var ErrNotFound = errors.New("storage: not found")
