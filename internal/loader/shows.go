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
	"github.com/tomtom215/reelsync/internal/parser"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// replaceSeasons deletes every stored season of shows and creates the
// seasons of their payloads. The credits of each created season are
// fetched and returned per show id.
func (l *Loader) replaceSeasons(ctx context.Context, shows []*tmdb.Show, report *Report) (map[int64][]*tmdb.Credits, error) {
	if len(shows) == 0 {
		return nil, nil
	}

	showIDs := make([]int64, len(shows))
	var seasons []models.Season
	for i, raw := range shows {
		showIDs[i] = raw.ID
		seasons = append(seasons, parser.Seasons(raw)...)
	}

	deleted, err := l.stores.Seasons.DeleteMany(ctx, database.In("show_id", showIDs))
	if err != nil {
		return nil, fmt.Errorf("delete seasons: %w", err)
	}
	report.Deleted += int(deleted)

	if len(seasons) == 0 {
		return nil, nil
	}
	report.Requested += len(seasons)
	created, err := l.stores.Seasons.CreateMany(ctx, seasons)
	if err != nil {
		return nil, fmt.Errorf("create %d seasons: %w", len(seasons), err)
	}
	report.Created += created

	return l.fetchSeasonCredits(ctx, seasons, report), nil
}

// fetchSeasonCredits fetches the credits of every season. Failed fetches
// are counted and skipped.
func (l *Loader) fetchSeasonCredits(ctx context.Context, seasons []models.Season, report *Report) map[int64][]*tmdb.Credits {
	results := make([]*tmdb.Credits, len(seasons))
	errs := make([]error, len(seasons))
	forEach(ctx, l.opts.FetchConcurrency, len(seasons), func(ctx context.Context, i int) {
		results[i], errs[i] = l.api.SeasonCredits(ctx, seasons[i].ShowID, seasons[i].SeasonNumber)
	})

	byShow := make(map[int64][]*tmdb.Credits, len(seasons))
	for i, s := range seasons {
		switch {
		case errs[i] != nil:
			report.FetchFailed++
			logging.Ctx(ctx).Debug().Err(errs[i]).
				Int64("show_id", s.ShowID).
				Int("season", s.SeasonNumber).
				Msg("[LOADER] Season credits fetch failed")
		case results[i] != nil:
			report.Fetched++
			byShow[s.ShowID] = append(byShow[s.ShowID], results[i])
		}
	}
	return byShow
}
