// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/parser"
)

// storedIDs returns the subset of ids present in a keyed store.
func storedIDs[T any](ctx context.Context, store database.Store[T], key func(T) int64, ids []int64) (map[int64]struct{}, error) {
	rows, err := store.FindMany(ctx, database.In("id", ids))
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		set[key(row)] = struct{}{}
	}
	return set, nil
}

// backfillPersons creates the persons referenced by media credits that
// are not stored yet.
func (l *Loader) backfillPersons(ctx context.Context, media []parser.Media, report *Report) error {
	var referenced []int64
	for _, m := range media {
		referenced = append(referenced, m.PersonIDs()...)
	}
	referenced = dedupe(referenced)
	if len(referenced) == 0 {
		return nil
	}

	e := l.personEntity()
	stored, err := storedIDs(ctx, l.stores.Persons, e.key, referenced)
	if err != nil {
		return fmt.Errorf("load stored persons: %w", err)
	}
	missing := make([]int64, 0, len(referenced)-len(stored))
	for _, id := range referenced {
		if _, ok := stored[id]; !ok {
			missing = append(missing, id)
		}
	}

	for _, chunk := range chunks(missing, l.opts.ChunkSize) {
		if _, err := reconcile(ctx, l, e, chunk, report); err != nil {
			return fmt.Errorf("backfill persons: %w", err)
		}
	}
	return nil
}

// refreshPersons reconciles the stored persons among changed. Persons
// TMDB no longer knows are deleted with their credits.
func (l *Loader) refreshPersons(ctx context.Context, changed []int64, report, credits *Report) error {
	e := l.personEntity()
	for _, chunk := range chunks(dedupe(changed), l.opts.ChunkSize) {
		stored, err := storedIDs(ctx, l.stores.Persons, e.key, chunk)
		if err != nil {
			return fmt.Errorf("load stored persons: %w", err)
		}
		if len(stored) == 0 {
			continue
		}
		ids := make([]int64, 0, len(stored))
		for _, id := range chunk {
			if _, ok := stored[id]; ok {
				ids = append(ids, id)
			}
		}

		out, err := reconcile(ctx, l, e, ids, report)
		if err != nil {
			return fmt.Errorf("refresh persons: %w", err)
		}
		if err := l.deletePersonCredits(ctx, out.NotFound, credits); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) deletePersonCredits(ctx context.Context, personIDs []int64, report *Report) error {
	if len(personIDs) == 0 {
		return nil
	}
	n, err := l.stores.Credits.DeleteMany(ctx, database.In("person_id", personIDs))
	if err != nil {
		return fmt.Errorf("delete credits of removed persons: %w", err)
	}
	report.Deleted += int(n)
	return nil
}
