// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/models"
)

// orphans returns the stored ids absent from discovered.
func orphans(stored, discovered []int64) []int64 {
	keep := idSet(discovered)
	var out []int64
	for _, id := range stored {
		if _, ok := keep[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func (l *Loader) deleteOrphanMovies(ctx context.Context, discovered []int64, summary *RunSummary) error {
	stored, err := l.stores.Movies.IDs(ctx)
	if err != nil {
		return fmt.Errorf("load movie ids: %w", err)
	}
	ids := orphans(stored, discovered)
	for _, chunk := range chunks(ids, l.opts.ChunkSize) {
		if err := l.deleteMediaDependents(ctx, models.MediaMovie, "movie_id", chunk, summary); err != nil {
			return err
		}
		n, err := l.stores.Movies.DeleteMany(ctx, database.In("id", chunk))
		if err != nil {
			return fmt.Errorf("delete orphan movies: %w", err)
		}
		summary.Report(entityMovies).Deleted += int(n)
	}
	if len(ids) > 0 {
		logging.Ctx(ctx).Info().Int("count", len(ids)).Msg("[LOADER] Orphan movies deleted")
	}
	return nil
}

func (l *Loader) deleteOrphanShows(ctx context.Context, discovered []int64, summary *RunSummary) error {
	stored, err := l.stores.Shows.IDs(ctx)
	if err != nil {
		return fmt.Errorf("load show ids: %w", err)
	}
	ids := orphans(stored, discovered)
	for _, chunk := range chunks(ids, l.opts.ChunkSize) {
		if err := l.deleteMediaDependents(ctx, models.MediaShow, "show_id", chunk, summary); err != nil {
			return err
		}
		n, err := l.stores.Seasons.DeleteMany(ctx, database.In("show_id", chunk))
		if err != nil {
			return fmt.Errorf("delete seasons of orphan shows: %w", err)
		}
		summary.Report(entitySeasons).Deleted += int(n)

		n, err = l.stores.Shows.DeleteMany(ctx, database.In("id", chunk))
		if err != nil {
			return fmt.Errorf("delete orphan shows: %w", err)
		}
		summary.Report(entityShows).Deleted += int(n)
	}
	if len(ids) > 0 {
		logging.Ctx(ctx).Info().Int("count", len(ids)).Msg("[LOADER] Orphan shows deleted")
	}
	return nil
}

// deleteMediaDependents removes the credits and provider links of media.
func (l *Loader) deleteMediaDependents(ctx context.Context, kind models.MediaKind, creditColumn string, ids []int64, summary *RunSummary) error {
	n, err := l.stores.Credits.DeleteMany(ctx, database.In(creditColumn, ids))
	if err != nil {
		return fmt.Errorf("delete credits of orphan %ss: %w", kind, err)
	}
	summary.Report(entityCredits).Deleted += int(n)

	n, err = l.stores.ProviderLinks.DeleteMany(ctx,
		database.In("media_kind", []models.MediaKind{kind}),
		database.In("media_id", ids))
	if err != nil {
		return fmt.Errorf("delete provider links of orphan %ss: %w", kind, err)
	}
	summary.Report(entityProviderLinks).Deleted += int(n)
	return nil
}
