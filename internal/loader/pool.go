// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// errNotFetched marks ids skipped because the context ended first.
var errNotFetched = errors.New("not fetched")

// forEach calls fn for 0..n-1 with at most limit calls in flight. No new
// calls start once ctx is done.
func forEach(ctx context.Context, limit, n int, fn func(ctx context.Context, i int)) {
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

// fetchResult is the outcome of fetching one id. Results are positional:
// the i-th result belongs to the i-th requested id.
type fetchResult[R any] struct {
	ID       int64
	Raw      *R
	Err      error
	NotFound bool
}

func fetchAll[R any](ctx context.Context, limit int, ids []int64, fetch func(context.Context, int64) (*R, error)) []fetchResult[R] {
	results := make([]fetchResult[R], len(ids))
	for i, id := range ids {
		results[i] = fetchResult[R]{ID: id, Err: errNotFetched}
	}
	forEach(ctx, limit, len(ids), func(ctx context.Context, i int) {
		raw, err := fetch(ctx, ids[i])
		results[i] = fetchResult[R]{
			ID:       ids[i],
			Raw:      raw,
			Err:      err,
			NotFound: errors.Is(err, tmdb.ErrNotFound),
		}
	})
	return results
}

// updateAll applies UpdateOne to every row with at most limit updates in
// flight and returns one result per row, in row order.
func updateAll[T any](ctx context.Context, limit int, store database.Store[T], rows []T) []UpdateResult[T] {
	results := make([]UpdateResult[T], len(rows))
	for i, row := range rows {
		results[i] = UpdateResult[T]{Row: row, Err: errNotFetched}
	}
	forEach(ctx, limit, len(rows), func(ctx context.Context, i int) {
		results[i] = UpdateResult[T]{Row: rows[i], Err: store.UpdateOne(ctx, rows[i])}
	})
	return results
}

// chunks splits ids into consecutive slices of at most size ids.
func chunks(ids []int64, size int) [][]int64 {
	if size < 1 {
		size = 1
	}
	var out [][]int64
	for start := 0; start < len(ids); start += size {
		out = append(out, ids[start:min(start+size, len(ids))])
	}
	return out
}

// dedupe returns ids without repeats, keeping first occurrences in order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
