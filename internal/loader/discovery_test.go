// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

func TestPaginate_FetchesEveryPageInOrder(t *testing.T) {
	var pages []int
	adult := true
	ids, err := paginate(context.Background(), func(_ context.Context, page int) (*tmdb.IDPage, error) {
		pages = append(pages, page)
		results := []tmdb.IDResult{{ID: int64(page * 10)}}
		if page == 2 {
			results = append(results, tmdb.IDResult{ID: 99, Adult: &adult})
		}
		return &tmdb.IDPage{Page: page, TotalPages: 3, Results: results}, nil
	})
	checkNoError(t, err)

	if len(pages) != 3 || pages[0] != 1 || pages[2] != 3 {
		t.Errorf("pages fetched = %v, want [1 2 3]", pages)
	}
	if len(ids) != 3 || ids[0] != 10 || ids[2] != 30 {
		t.Errorf("ids = %v, want [10 20 30] without the adult title", ids)
	}
}

func TestPaginate_CapsTotalPages(t *testing.T) {
	calls := 0
	_, err := paginate(context.Background(), func(_ context.Context, page int) (*tmdb.IDPage, error) {
		calls++
		return &tmdb.IDPage{Page: page, TotalPages: 900}, nil
	})
	checkNoError(t, err)
	checkIntEqual(t, "pages fetched", calls, tmdb.MaxPages)
}

func TestPaginate_PageErrorAbortsWalk(t *testing.T) {
	_, err := paginate(context.Background(), func(_ context.Context, page int) (*tmdb.IDPage, error) {
		if page == 2 {
			return nil, tmdb.ErrRateLimited
		}
		return &tmdb.IDPage{Page: page, TotalPages: 4}, nil
	})
	if !errors.Is(err, tmdb.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestDiscoverAll_WalksYearsToHorizon(t *testing.T) {
	var mu sync.Mutex
	var queries []tmdb.DiscoverQuery
	api := &mockAPI{
		discoverFunc: func(_ context.Context, _ tmdb.Resource, q tmdb.DiscoverQuery, _ int) (*tmdb.IDPage, error) {
			mu.Lock()
			queries = append(queries, q)
			mu.Unlock()
			if q.From == "2025-01-01" {
				return pageOf(1, 2), nil
			}
			return pageOf(2, 3), nil
		},
	}
	l := newTestLoader(t, api, database.Stores{}, testOptions())

	ids, err := l.discoverAll(context.Background(), tmdb.ResourceMovie)
	checkNoError(t, err)

	if len(queries) != 2 {
		t.Fatalf("queries = %+v, want one per year 2025..2026", queries)
	}
	if queries[0].To != "2025-12-31" || queries[1].To != "2026-07-15" {
		t.Errorf("query windows = %+v", queries)
	}
	if queries[0].MinVoteCount != testOptions().Parser.MinVoteCount {
		t.Errorf("MinVoteCount = %d", queries[0].MinVoteCount)
	}
	if len(ids) != 3 {
		t.Errorf("ids = %v, want deduplicated [1 2 3]", ids)
	}
}

func TestDiscover_IncrementalWithoutChangesSkipsDiscovery(t *testing.T) {
	api := &mockAPI{}
	l := newTestLoader(t, api, database.Stores{}, testOptions())

	ids, err := l.discover(context.Background(), ModeIncremental, tmdb.ResourceTV)
	checkNoError(t, err)
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
	checkIntEqual(t, "discover calls", api.callCount("discover_tv"), 0)
}
