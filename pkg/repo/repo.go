// Package repo defines a keyed store of graph nodes.
package repo

import (
	"context"

	"github.com/mediascrape/mediascrape/pkg/fn"
)

// Repository is a generic keyed store. Get reports a missing entity as
// fn.NotFound rather than an error. Upsert creates or replaces by ID.
type Repository[T any, ID comparable] interface {
	Get(ctx context.Context, id ID) fn.Result[T]
	Upsert(ctx context.Context, entity T) (T, error)
}
