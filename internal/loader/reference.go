// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/diff"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/parser"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// upsert creates and updates rows of a small reference table. Stored rows
// missing from remote are kept. merge carries stored-only columns into an
// updated row.
func upsert[T any, K comparable](ctx context.Context, l *Loader, name string, store database.Store[T], remote []T, key func(T) K, merge func(remote, local T) T, report *Report) error {
	report.Requested += len(remote)
	report.Fetched += len(remote)
	report.Validated += len(remote)

	local, err := store.FindMany(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	result := diff.Compute(remote, local, key, diff.Options{})
	report.Unchanged += len(result.Unchanged)

	if len(result.Create) > 0 {
		n, err := store.CreateMany(ctx, result.Create)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		report.Created += n
	}

	if len(result.Update) > 0 && merge != nil {
		stored := make(map[K]T, len(local))
		for _, row := range local {
			stored[key(row)] = row
		}
		for i, row := range result.Update {
			result.Update[i] = merge(row, stored[key(row)])
		}
	}

	for _, u := range updateAll(ctx, l.opts.UpdateConcurrency, store, result.Update) {
		if u.Err != nil {
			report.UpdateFailed++
			logging.Ctx(ctx).Warn().Err(u.Err).Str("entity", name).Msg("[LOADER] Reference update failed")
			continue
		}
		report.Updated++
	}
	return nil
}

// refreshReference upserts genres, languages and providers. Each table is
// attempted; the errors are joined.
func (l *Loader) refreshReference(ctx context.Context, summary *RunSummary) error {
	return errors.Join(
		l.refreshGenres(ctx, summary.Report(entityGenres)),
		l.refreshLanguages(ctx, summary.Report(entityLanguages)),
		l.refreshProviders(ctx, summary.Report(entityProviders)),
	)
}

func (l *Loader) refreshGenres(ctx context.Context, report *Report) error {
	movie, err := l.api.Genres(ctx, tmdb.ResourceMovie)
	if err != nil {
		return fmt.Errorf("fetch movie genres: %w", err)
	}
	tv, err := l.api.Genres(ctx, tmdb.ResourceTV)
	if err != nil {
		return fmt.Errorf("fetch tv genres: %w", err)
	}
	return upsert(ctx, l, entityGenres, l.stores.Genres, parser.Genres(movie, tv),
		func(g models.Genre) int { return g.ID }, nil, report)
}

func (l *Loader) refreshLanguages(ctx context.Context, report *Report) error {
	raw, err := l.api.Languages(ctx)
	if err != nil {
		return fmt.Errorf("fetch languages: %w", err)
	}
	return upsert(ctx, l, entityLanguages, l.stores.Languages, parser.Languages(raw),
		func(lang models.Language) string { return lang.ID },
		func(remote, local models.Language) models.Language {
			remote.Count = local.Count
			return remote
		}, report)
}

func (l *Loader) refreshProviders(ctx context.Context, report *Report) error {
	region := l.opts.Parser.Region
	movie, err := l.api.Providers(ctx, tmdb.ResourceMovie, region)
	if err != nil {
		return fmt.Errorf("fetch movie providers: %w", err)
	}
	tv, err := l.api.Providers(ctx, tmdb.ResourceTV, region)
	if err != nil {
		return fmt.Errorf("fetch tv providers: %w", err)
	}
	return upsert(ctx, l, entityProviders, l.stores.Providers, parser.Providers(movie, tv, region),
		func(p models.Provider) int { return p.ID },
		func(remote, local models.Provider) models.Provider {
			remote.Count = local.Count
			return remote
		}, report)
}
