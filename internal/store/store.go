// Package store implements company-scoped persistence for the modeler on
// top of pgx. All multi-statement writes run in a single transaction so a
// save either fully replaces its scope or not at all.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an explicitly identified row does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalidMapping is returned when a mapping save references a company
// account of another company or an unknown master account
var ErrInvalidMapping = errors.New("invalid mapping")

// Store is the single data-access type; one instance is shared by all handlers
type Store struct {
	pool *pgxpool.Pool
}

// New creates a store backed by the given connection pool
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
