// Package inventory defines the device store contract and its in-memory
// implementation.
package inventory

import (
	"context"

	"devinv/internal/domain"
)

// Store is an ordered collection of device records. List order is insertion
// order. Remove and Replace on an id that does not exist are no-ops; Get
// returns domain.ErrNotFound.
type Store interface {
	Add(ctx context.Context, d domain.Device) (domain.Device, error)
	// AddAll appends every record or none of them.
	AddAll(ctx context.Context, ds []domain.Device) ([]domain.Device, error)
	Remove(ctx context.Context, id int64) error
	Replace(ctx context.Context, id int64, d domain.Device) error
	Get(ctx context.Context, id int64) (domain.Device, error)
	List(ctx context.Context) ([]domain.Device, error)
	// Clear removes every record and reports how many were removed.
	Clear(ctx context.Context) (int64, error)
}
