// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"time"

	"github.com/tomtom215/reelsync/internal/models"
)

// Cond restricts a query to rows whose Column is one of Values.
// A Cond with no values matches nothing.
type Cond struct {
	Column string
	Values []interface{}
}

// In builds a Cond from a typed slice.
func In[V any](column string, values []V) Cond {
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Cond{Column: column, Values: vals}
}

// Store is the table interface reconciliation is written against.
type Store[T any] interface {
	FindMany(ctx context.Context, conds ...Cond) ([]T, error)
	CreateMany(ctx context.Context, rows []T) (int, error)
	UpdateOne(ctx context.Context, row T) error
	DeleteMany(ctx context.Context, conds ...Cond) (int64, error)
}

// KeyedStore is a Store of rows identified by a numeric "id" column.
type KeyedStore[T any] interface {
	Store[T]
	IDs(ctx context.Context) ([]int64, error)
}

var _ KeyedStore[models.Movie] = (*Table[models.Movie])(nil)

// RunLog persists sync run history.
type RunLog interface {
	CreateSyncRun(ctx context.Context, run models.SyncRun) error
	CompleteSyncRun(ctx context.Context, id string, endedAt time.Time, summary string) error
}

// CountAggregator recomputes denormalized counts.
type CountAggregator interface {
	RecomputeCounts(ctx context.Context) error
}

// Stores is every table the loader reads and writes.
type Stores struct {
	Movies        KeyedStore[models.Movie]
	Shows         KeyedStore[models.Show]
	Seasons       Store[models.Season]
	Persons       KeyedStore[models.Person]
	Credits       Store[models.Credit]
	ProviderLinks Store[models.ProviderLink]
	Genres        Store[models.Genre]
	Languages     Store[models.Language]
	Providers     Store[models.Provider]
	Runs          RunLog
	Counts        CountAggregator
}
