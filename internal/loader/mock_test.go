// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// mockAPI implements tmdb.API with overridable function fields. Unset
// fields return empty results.
type mockAPI struct {
	movieFunc         func(ctx context.Context, id int64) (*tmdb.Movie, error)
	showFunc          func(ctx context.Context, id int64) (*tmdb.Show, error)
	seasonCreditsFunc func(ctx context.Context, showID int64, season int) (*tmdb.Credits, error)
	personFunc        func(ctx context.Context, id int64) (*tmdb.Person, error)
	changesFunc       func(ctx context.Context, resource tmdb.Resource, start, end time.Time, page int) (*tmdb.IDPage, error)
	discoverFunc      func(ctx context.Context, resource tmdb.Resource, query tmdb.DiscoverQuery, page int) (*tmdb.IDPage, error)
	genresFunc        func(ctx context.Context, resource tmdb.Resource) ([]tmdb.Genre, error)
	languagesFunc     func(ctx context.Context) ([]tmdb.Language, error)
	providersFunc     func(ctx context.Context, resource tmdb.Resource, region string) ([]tmdb.Provider, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ tmdb.API = (*mockAPI)(nil)

func (m *mockAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockAPI) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockAPI) Movie(ctx context.Context, id int64) (*tmdb.Movie, error) {
	m.record("movie")
	if m.movieFunc != nil {
		return m.movieFunc(ctx, id)
	}
	return nil, tmdb.ErrNotFound
}

func (m *mockAPI) Show(ctx context.Context, id int64) (*tmdb.Show, error) {
	m.record("show")
	if m.showFunc != nil {
		return m.showFunc(ctx, id)
	}
	return nil, tmdb.ErrNotFound
}

func (m *mockAPI) SeasonCredits(ctx context.Context, showID int64, season int) (*tmdb.Credits, error) {
	m.record("season_credits")
	if m.seasonCreditsFunc != nil {
		return m.seasonCreditsFunc(ctx, showID, season)
	}
	return &tmdb.Credits{}, nil
}

func (m *mockAPI) Person(ctx context.Context, id int64) (*tmdb.Person, error) {
	m.record("person")
	if m.personFunc != nil {
		return m.personFunc(ctx, id)
	}
	return nil, tmdb.ErrNotFound
}

func (m *mockAPI) Changes(ctx context.Context, resource tmdb.Resource, start, end time.Time, page int) (*tmdb.IDPage, error) {
	m.record("changes_" + string(resource))
	if m.changesFunc != nil {
		return m.changesFunc(ctx, resource, start, end, page)
	}
	return &tmdb.IDPage{Page: page, TotalPages: 1}, nil
}

func (m *mockAPI) Discover(ctx context.Context, resource tmdb.Resource, query tmdb.DiscoverQuery, page int) (*tmdb.IDPage, error) {
	m.record("discover_" + string(resource))
	if m.discoverFunc != nil {
		return m.discoverFunc(ctx, resource, query, page)
	}
	return &tmdb.IDPage{Page: page, TotalPages: 1}, nil
}

func (m *mockAPI) Genres(ctx context.Context, resource tmdb.Resource) ([]tmdb.Genre, error) {
	m.record("genres")
	if m.genresFunc != nil {
		return m.genresFunc(ctx, resource)
	}
	return nil, nil
}

func (m *mockAPI) Languages(ctx context.Context) ([]tmdb.Language, error) {
	m.record("languages")
	if m.languagesFunc != nil {
		return m.languagesFunc(ctx)
	}
	return nil, nil
}

func (m *mockAPI) Providers(ctx context.Context, resource tmdb.Resource, region string) ([]tmdb.Provider, error) {
	m.record("providers")
	if m.providersFunc != nil {
		return m.providersFunc(ctx, resource, region)
	}
	return nil, nil
}

// pageOf builds a single page of ids.
func pageOf(ids ...int64) *tmdb.IDPage {
	results := make([]tmdb.IDResult, len(ids))
	for i, id := range ids {
		results[i] = tmdb.IDResult{ID: id}
	}
	return &tmdb.IDPage{Page: 1, TotalPages: 1, TotalResults: len(ids), Results: results}
}

// catalog is an in-memory TMDB used to drive full runs.
type catalog struct {
	movies        map[int64]*tmdb.Movie
	shows         map[int64]*tmdb.Show
	persons       map[int64]*tmdb.Person
	seasonCredits map[string]*tmdb.Credits // "<show>/<season>"

	discoverable map[tmdb.Resource][]int64
	changed      map[tmdb.Resource][]int64
}

func newCatalog() *catalog {
	return &catalog{
		movies:        map[int64]*tmdb.Movie{},
		shows:         map[int64]*tmdb.Show{},
		persons:       map[int64]*tmdb.Person{},
		seasonCredits: map[string]*tmdb.Credits{},
		discoverable:  map[tmdb.Resource][]int64{},
		changed:       map[tmdb.Resource][]int64{},
	}
}

// api returns a mockAPI serving the catalog. Discover returns every
// discoverable id for the first year queried and nothing for later years.
func (c *catalog) api() *mockAPI {
	m := &mockAPI{}
	m.movieFunc = func(_ context.Context, id int64) (*tmdb.Movie, error) {
		if raw, ok := c.movies[id]; ok {
			return raw, nil
		}
		return nil, tmdb.ErrNotFound
	}
	m.showFunc = func(_ context.Context, id int64) (*tmdb.Show, error) {
		if raw, ok := c.shows[id]; ok {
			return raw, nil
		}
		return nil, tmdb.ErrNotFound
	}
	m.personFunc = func(_ context.Context, id int64) (*tmdb.Person, error) {
		if raw, ok := c.persons[id]; ok {
			return raw, nil
		}
		return nil, tmdb.ErrNotFound
	}
	m.seasonCreditsFunc = func(_ context.Context, showID int64, season int) (*tmdb.Credits, error) {
		if raw, ok := c.seasonCredits[seasonKey(showID, season)]; ok {
			return raw, nil
		}
		return &tmdb.Credits{}, nil
	}
	m.changesFunc = func(_ context.Context, resource tmdb.Resource, _, _ time.Time, _ int) (*tmdb.IDPage, error) {
		return pageOf(c.changed[resource]...), nil
	}
	m.discoverFunc = func(_ context.Context, resource tmdb.Resource, query tmdb.DiscoverQuery, _ int) (*tmdb.IDPage, error) {
		if strings.HasPrefix(query.From, testEpochYear) {
			return pageOf(c.discoverable[resource]...), nil
		}
		return pageOf(), nil
	}
	m.genresFunc = func(_ context.Context, resource tmdb.Resource) ([]tmdb.Genre, error) {
		if resource == tmdb.ResourceMovie {
			return []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 53, Name: "Thriller"}}, nil
		}
		return []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 10765, Name: "Sci-Fi & Fantasy"}}, nil
	}
	m.languagesFunc = func(context.Context) ([]tmdb.Language, error) {
		return []tmdb.Language{{Code: "en", EnglishName: "English"}, {Code: "fr", EnglishName: "French"}}, nil
	}
	m.providersFunc = func(_ context.Context, resource tmdb.Resource, _ string) ([]tmdb.Provider, error) {
		return []tmdb.Provider{
			{ProviderID: 8, ProviderName: "Netflix", DisplayPriority: 1},
			{ProviderID: 337, ProviderName: "Disney Plus", DisplayPriority: 2},
		}, nil
	}
	return m
}

// failingStore wraps a keyed store and lets tests inject write failures.
type failingStore[T any] struct {
	database.KeyedStore[T]
	createFunc func(rows []T) error
	updateFunc func(row T) error
}

func (s *failingStore[T]) CreateMany(ctx context.Context, rows []T) (int, error) {
	if s.createFunc != nil {
		if err := s.createFunc(rows); err != nil {
			return 0, err
		}
	}
	return s.KeyedStore.CreateMany(ctx, rows)
}

func (s *failingStore[T]) UpdateOne(ctx context.Context, row T) error {
	if s.updateFunc != nil {
		if err := s.updateFunc(row); err != nil {
			return err
		}
	}
	return s.KeyedStore.UpdateOne(ctx, row)
}

var _ database.KeyedStore[models.Movie] = (*failingStore[models.Movie])(nil)
