// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/diff"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/parser"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// entity describes how one TMDB resource maps onto one table. R is the
// TMDB payload type, T the stored row type.
type entity[R, T any] struct {
	name  string
	fetch func(ctx context.Context, id int64) (*R, error)
	parse func(raw *R) (T, bool)
	key   func(row T) int64
	store database.Store[T]

	// deleteMissing deletes stored rows whose fetch returned not found.
	deleteMissing bool
}

// outcome is what reconcile hands to the caller.
type outcome[R, T any] struct {
	// Mutated holds the payloads of rows created or successfully updated.
	Mutated []*R

	// NotFound holds the ids TMDB reported as gone.
	NotFound []int64

	Updates []UpdateResult[T]
}

// reconcile converges the stored rows of ids with TMDB.
//
// An error is returned when the stored rows cannot be read, the bulk
// create fails or ctx ends. Per-id fetch failures and per-row update
// failures are counted in report and never returned.
func reconcile[R, T any](ctx context.Context, l *Loader, e entity[R, T], ids []int64, report *Report) (outcome[R, T], error) {
	var out outcome[R, T]
	ids = dedupe(ids)
	if len(ids) == 0 {
		return out, nil
	}
	report.Requested += len(ids)
	log := logging.Ctx(ctx)

	results := fetchAll(ctx, l.opts.FetchConcurrency, ids, e.fetch)
	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("fetch %s: %w", e.name, err)
	}

	remote := make([]T, 0, len(results))
	raws := make(map[int64]*R, len(results))
	for _, r := range results {
		switch {
		case r.NotFound:
			report.NotFound++
			out.NotFound = append(out.NotFound, r.ID)
		case r.Err != nil:
			report.FetchFailed++
			log.Debug().Err(r.Err).Str("entity", e.name).Int64("id", r.ID).Msg("[LOADER] Fetch failed")
		default:
			report.Fetched++
			row, ok := e.parse(r.Raw)
			if !ok {
				report.Invalid++
				continue
			}
			report.Validated++
			remote = append(remote, row)
			raws[e.key(row)] = r.Raw
		}
	}

	local, err := e.store.FindMany(ctx, database.In("id", ids))
	if err != nil {
		return out, fmt.Errorf("load stored %s: %w", e.name, err)
	}

	result := diff.Compute(remote, local, e.key, diff.Options{})
	report.Unchanged += len(result.Unchanged)

	if len(result.Create) > 0 {
		n, err := e.store.CreateMany(ctx, result.Create)
		if err != nil {
			return out, fmt.Errorf("create %d %s: %w", len(result.Create), e.name, err)
		}
		report.Created += n
		for _, row := range result.Create {
			out.Mutated = append(out.Mutated, raws[e.key(row)])
		}
	}

	out.Updates = updateAll(ctx, l.opts.UpdateConcurrency, e.store, result.Update)
	for _, u := range out.Updates {
		if u.Err != nil {
			report.UpdateFailed++
			log.Warn().Err(u.Err).Str("entity", e.name).Int64("id", e.key(u.Row)).Msg("[LOADER] Update failed")
			continue
		}
		report.Updated++
		out.Mutated = append(out.Mutated, raws[e.key(u.Row)])
	}

	if e.deleteMissing && len(out.NotFound) > 0 {
		n, err := e.store.DeleteMany(ctx, database.In("id", out.NotFound))
		if err != nil {
			return out, fmt.Errorf("delete missing %s: %w", e.name, err)
		}
		report.Deleted += int(n)
	}

	log.Debug().
		Str("entity", e.name).
		Int("requested", len(ids)).
		Int("created", len(result.Create)).
		Int("updated", len(result.Update)).
		Int("unchanged", len(result.Unchanged)).
		Msg("[LOADER] Batch reconciled")

	return out, nil
}

func (l *Loader) movieEntity() entity[tmdb.Movie, models.Movie] {
	return entity[tmdb.Movie, models.Movie]{
		name:  entityMovies,
		fetch: l.api.Movie,
		parse: func(raw *tmdb.Movie) (models.Movie, bool) { return parser.Movie(raw, l.opts.Parser) },
		key:   func(m models.Movie) int64 { return m.ID },
		store: l.stores.Movies,
	}
}

func (l *Loader) showEntity() entity[tmdb.Show, models.Show] {
	return entity[tmdb.Show, models.Show]{
		name:  entityShows,
		fetch: l.api.Show,
		parse: func(raw *tmdb.Show) (models.Show, bool) { return parser.Show(raw, l.opts.Parser) },
		key:   func(s models.Show) int64 { return s.ID },
		store: l.stores.Shows,
	}
}

func (l *Loader) personEntity() entity[tmdb.Person, models.Person] {
	return entity[tmdb.Person, models.Person]{
		name:          entityPersons,
		fetch:         l.api.Person,
		parse:         parser.Person,
		key:           func(p models.Person) int64 { return p.ID },
		store:         l.stores.Persons,
		deleteMissing: true,
	}
}
