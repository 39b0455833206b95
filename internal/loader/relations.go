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
)

// mediaScope holds the movie and show ids of a batch.
type mediaScope struct {
	movies []int64
	shows  []int64
}

func scopeOf(media []parser.Media) mediaScope {
	var s mediaScope
	for _, m := range media {
		switch m.Ref.Kind {
		case models.MediaMovie:
			s.movies = append(s.movies, m.Ref.ID)
		case models.MediaShow:
			s.shows = append(s.shows, m.Ref.ID)
		}
	}
	return s
}

// reconcileRelations reconciles the credits and provider links of media.
// Both are attempted; their errors are joined.
func (l *Loader) reconcileRelations(ctx context.Context, media []parser.Media, summary *RunSummary) error {
	if len(media) == 0 {
		return nil
	}
	scope := scopeOf(media)
	return errors.Join(
		l.reconcileCredits(ctx, media, scope, summary.Report(entityCredits)),
		l.reconcileProviderLinks(ctx, media, scope, summary.Report(entityProviderLinks)),
	)
}

// normalizeCredit clears the role half a credit does not carry and the
// foreign key of the other media kind.
func normalizeCredit(c models.Credit) models.Credit {
	if c.IsCast() {
		c.Department, c.Job = nil, nil
	} else {
		c.Character, c.Order = nil, nil
	}
	if c.MovieID != nil {
		c.ShowID = nil
	}
	return c
}

func creditKey(c models.Credit) string { return c.ID }

func (l *Loader) reconcileCredits(ctx context.Context, media []parser.Media, scope mediaScope, report *Report) error {
	var remote []models.Credit
	var personIDs []int64
	for _, m := range media {
		remote = append(remote, m.Credits...)
		personIDs = append(personIDs, m.PersonIDs()...)
	}

	persons, err := storedIDs(ctx, l.stores.Persons, func(p models.Person) int64 { return p.ID }, dedupe(personIDs))
	if err != nil {
		return fmt.Errorf("load stored persons: %w", err)
	}
	kept := remote[:0]
	for _, c := range remote {
		if _, ok := persons[c.PersonID]; ok {
			kept = append(kept, normalizeCredit(c))
		}
	}
	remote = kept
	report.Requested += len(remote)

	local, err := l.storedCredits(ctx, scope)
	if err != nil {
		return err
	}

	result := diff.Compute(remote, local, creditKey, diff.Options{DeleteOrphans: true})
	report.Unchanged += len(result.Unchanged)

	// A credit id already stored under media outside this batch is moved, not re-created.
	create, moved, err := l.splitStoredCredits(ctx, result.Create)
	if err != nil {
		return err
	}

	var errs []error
	if len(create) > 0 {
		n, err := l.stores.Credits.CreateMany(ctx, create)
		if err != nil {
			errs = append(errs, fmt.Errorf("create %d credits: %w", len(create), err))
		}
		report.Created += n
	}

	for _, u := range updateAll(ctx, l.opts.UpdateConcurrency, l.stores.Credits, append(result.Update, moved...)) {
		if u.Err != nil {
			report.UpdateFailed++
			logging.Ctx(ctx).Warn().Err(u.Err).Str("credit_id", u.Row.ID).Msg("[LOADER] Credit update failed")
			continue
		}
		report.Updated++
	}

	if len(result.Delete) > 0 {
		ids := make([]string, len(result.Delete))
		for i, c := range result.Delete {
			ids[i] = c.ID
		}
		n, err := l.stores.Credits.DeleteMany(ctx, database.In("id", ids))
		if err != nil {
			errs = append(errs, fmt.Errorf("delete %d stale credits: %w", len(ids), err))
		}
		report.Deleted += int(n)
	}
	return errors.Join(errs...)
}

func (l *Loader) storedCredits(ctx context.Context, scope mediaScope) ([]models.Credit, error) {
	var local []models.Credit
	if len(scope.movies) > 0 {
		rows, err := l.stores.Credits.FindMany(ctx, database.In("movie_id", scope.movies))
		if err != nil {
			return nil, fmt.Errorf("load movie credits: %w", err)
		}
		local = append(local, rows...)
	}
	if len(scope.shows) > 0 {
		rows, err := l.stores.Credits.FindMany(ctx, database.In("show_id", scope.shows))
		if err != nil {
			return nil, fmt.Errorf("load show credits: %w", err)
		}
		local = append(local, rows...)
	}
	for i := range local {
		local[i] = normalizeCredit(local[i])
	}
	return local, nil
}

// splitStoredCredits separates credits whose id is stored already.
func (l *Loader) splitStoredCredits(ctx context.Context, credits []models.Credit) (create, stored []models.Credit, err error) {
	if len(credits) == 0 {
		return nil, nil, nil
	}
	ids := make([]string, len(credits))
	for i, c := range credits {
		ids[i] = c.ID
	}
	existing, err := l.stores.Credits.FindMany(ctx, database.In("id", ids))
	if err != nil {
		return nil, nil, fmt.Errorf("load credits by id: %w", err)
	}
	if len(existing) == 0 {
		return credits, nil, nil
	}
	found := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		found[c.ID] = struct{}{}
	}
	for _, c := range credits {
		if _, ok := found[c.ID]; ok {
			stored = append(stored, c)
		} else {
			create = append(create, c)
		}
	}
	return create, stored, nil
}

func linkKey(l models.ProviderLink) string { return l.Key() }

func (l *Loader) reconcileProviderLinks(ctx context.Context, media []parser.Media, scope mediaScope, report *Report) error {
	var remote []models.ProviderLink
	for _, m := range media {
		remote = append(remote, m.Links...)
	}
	report.Requested += len(remote)

	var local []models.ProviderLink
	for kind, ids := range map[models.MediaKind][]int64{models.MediaMovie: scope.movies, models.MediaShow: scope.shows} {
		if len(ids) == 0 {
			continue
		}
		rows, err := l.stores.ProviderLinks.FindMany(ctx,
			database.In("media_kind", []models.MediaKind{kind}),
			database.In("media_id", ids))
		if err != nil {
			return fmt.Errorf("load %s provider links: %w", kind, err)
		}
		local = append(local, rows...)
	}

	result := diff.Compute(remote, local, linkKey, diff.Options{DeleteOrphans: true})
	report.Unchanged += len(result.Unchanged)

	var errs []error
	if len(result.Create) > 0 {
		n, err := l.stores.ProviderLinks.CreateMany(ctx, result.Create)
		if err != nil {
			errs = append(errs, fmt.Errorf("create %d provider links: %w", len(result.Create), err))
		}
		report.Created += n
	}

	for _, link := range result.Delete {
		n, err := l.stores.ProviderLinks.DeleteMany(ctx,
			database.In("media_kind", []models.MediaKind{link.MediaKind}),
			database.In("media_id", []int64{link.MediaID}),
			database.In("provider_id", []int{link.ProviderID}))
		if err != nil {
			report.UpdateFailed++
			logging.Ctx(ctx).Warn().Err(err).Str("link", link.Key()).Msg("[LOADER] Provider link delete failed")
			continue
		}
		report.Deleted += int(n)
	}
	return errors.Join(errs...)
}
