package repositories

import (
	"context"

	"github.com/mga-portal/database"
)

// CollectionRepository reads one stored collection or view in a fixed order
type CollectionRepository[T any] struct {
	store  database.RecordStore
	source string
	order  database.OrderSpec
}

// NewCollectionRepository creates a repository over source, sorted by order
func NewCollectionRepository[T any](store database.RecordStore, source string, order database.OrderSpec) *CollectionRepository[T] {
	return &CollectionRepository[T]{
		store:  store,
		source: source,
		order:  order,
	}
}

// FindAll retrieves every record of the collection
func (r *CollectionRepository[T]) FindAll(ctx context.Context) database.Result[T] {
	return database.Fetch[T](ctx, r.store, r.source, r.order)
}

// Source returns the collection or view name
func (r *CollectionRepository[T]) Source() string {
	return r.source
}

// Order returns the sort applied to every read
func (r *CollectionRepository[T]) Order() database.OrderSpec {
	return r.order
}
