// Package store persists Cat entities. The SQLite implementation is the
// service's single source of truth; the cache layer sits in front of it and
// never owns entity identity.
package store

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrNotFound indicates the requested cat does not exist.
var ErrNotFound = errors.New("cat not found")

// Cat is one cat record. ID is assigned by the store on insert.
type Cat struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Weight float64 `json:"weight"`
	Breed  string  `json:"breed"`
}

// CatUpdate carries a partial update. Nil fields are left unchanged.
type CatUpdate struct {
	Name   *string
	Age    *int
	Weight *float64
	Breed  *string
}

// Store is the persistence contract for cats. Single-entity lookups report
// a missing record with ErrNotFound.
type Store interface {
	Insert(ctx context.Context, cat Cat) (Cat, error)
	FindByID(ctx context.Context, id int64) (Cat, error)
	FindByName(ctx context.Context, name string) ([]Cat, error)
	FindAll(ctx context.Context) ([]Cat, error)
	UpdatePartial(ctx context.Context, id int64, upd CatUpdate) (Cat, error)
	// DeleteByID removes the cat and returns the number of rows deleted.
	// Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id int64) (int64, error)
	Close() error
}
