// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// discoverCachePrefix prefixes the cache keys of discoverable id sets.
const discoverCachePrefix = "discover:"

// paginate fetches page 1, then pages 2..total_pages in order, and
// returns every id. total_pages is capped at tmdb.MaxPages. Adult titles
// are skipped.
func paginate(ctx context.Context, fetch func(ctx context.Context, page int) (*tmdb.IDPage, error)) ([]int64, error) {
	first, err := fetch(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("page 1: %w", err)
	}
	ids := appendPage(nil, first)

	total := min(first.TotalPages, tmdb.MaxPages)
	for page := 2; page <= total; page++ {
		next, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d of %d: %w", page, total, err)
		}
		ids = appendPage(ids, next)
	}
	return ids, nil
}

func appendPage(ids []int64, page *tmdb.IDPage) []int64 {
	if page == nil {
		return ids
	}
	for _, r := range page.Results {
		if r.Adult != nil && *r.Adult {
			continue
		}
		ids = append(ids, r.ID)
	}
	return ids
}

// changedIDs returns the ids of resource changed within the lookback window.
func (l *Loader) changedIDs(ctx context.Context, resource tmdb.Resource) ([]int64, error) {
	end := l.now()
	start := end.Add(-l.opts.Lookback)
	ids, err := paginate(ctx, func(ctx context.Context, page int) (*tmdb.IDPage, error) {
		return l.api.Changes(ctx, resource, start, end, page)
	})
	if err != nil {
		return nil, fmt.Errorf("%s changes: %w", resource, err)
	}
	return dedupe(ids), nil
}

// discoverAll walks TMDB discover year by year from the epoch year
// through one month from now and returns every id once.
func (l *Loader) discoverAll(ctx context.Context, resource tmdb.Resource) ([]int64, error) {
	horizon := l.now().AddDate(0, 1, 0)
	var ids []int64

	for year := l.opts.EpochYear; year <= horizon.Year(); year++ {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		if to.After(horizon) {
			to = horizon
		}
		query := tmdb.DiscoverQuery{
			From:         from.Format(tmdb.DateLayout),
			To:           to.Format(tmdb.DateLayout),
			MinVoteCount: l.opts.Parser.MinVoteCount,
		}

		yearIDs, err := paginate(ctx, func(ctx context.Context, page int) (*tmdb.IDPage, error) {
			return l.api.Discover(ctx, resource, query, page)
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s %d: %w", resource, year, err)
		}
		ids = append(ids, yearIDs...)
	}

	ids = dedupe(ids)
	logging.Ctx(ctx).Info().
		Str("resource", string(resource)).
		Int("ids", len(ids)).
		Msg("[LOADER] Discovery complete")
	return ids, nil
}

// discoverable returns the discoverable ids of resource, from the cache
// when present.
func (l *Loader) discoverable(ctx context.Context, resource tmdb.Resource) ([]int64, error) {
	key := discoverCachePrefix + string(resource)
	if cached, ok := l.cache.Get(key); ok {
		if ids, ok := cached.([]int64); ok {
			return ids, nil
		}
	}
	ids, err := l.discoverAll(ctx, resource)
	if err != nil {
		return nil, err
	}
	l.cache.Set(key, ids)
	return ids, nil
}

// discover returns the ids a run of mode reconciles for resource.
func (l *Loader) discover(ctx context.Context, mode Mode, resource tmdb.Resource) ([]int64, error) {
	if mode == ModeFull {
		return l.discoverable(ctx, resource)
	}

	changed, err := l.changedIDs(ctx, resource)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return nil, nil
	}
	allowed, err := l.discoverable(ctx, resource)
	if err != nil {
		return nil, err
	}
	set := idSet(allowed)
	ids := make([]int64, 0, len(changed))
	for _, id := range changed {
		if _, ok := set[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
