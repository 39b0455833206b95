// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/metrics"
	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/parser"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// Cache holds discoverable id sets between runs. *cache.Cache implements it.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Clear()
}

// Options tunes a Loader.
type Options struct {
	ChunkSize         int
	FetchConcurrency  int
	UpdateConcurrency int
	Lookback          time.Duration
	EpochYear         int
	Parser            parser.Options

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		ChunkSize:         500,
		FetchConcurrency:  48,
		UpdateConcurrency: 32,
		Lookback:          48 * time.Hour,
		EpochYear:         1874,
		Parser:            parser.DefaultOptions(),
	}
}

// OptionsFromConfig builds Options from the sync and tmdb sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ChunkSize:         cfg.Sync.ChunkSize,
		FetchConcurrency:  cfg.Sync.FetchConcurrency,
		UpdateConcurrency: cfg.Sync.UpdateConcurrency,
		Lookback:          cfg.Sync.Lookback,
		EpochYear:         cfg.Sync.EpochYear,
		Parser:            parser.OptionsFromConfig(cfg),
	}
}

// Loader runs sync passes against one TMDB API and one store.
//
// Thread Safety: RunSync may be called from any goroutine; at most one
// run executes at a time.
type Loader struct {
	api    tmdb.API
	stores database.Stores
	cache  Cache
	opts   Options

	running atomic.Bool
}

// New creates a Loader. Zero option values fall back to DefaultOptions.
func New(api tmdb.API, stores database.Stores, cache Cache, opts Options) *Loader {
	def := DefaultOptions()
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = def.FetchConcurrency
	}
	if opts.UpdateConcurrency <= 0 {
		opts.UpdateConcurrency = def.UpdateConcurrency
	}
	if opts.Lookback <= 0 {
		opts.Lookback = def.Lookback
	}
	if opts.EpochYear <= 0 {
		opts.EpochYear = def.EpochYear
	}
	if opts.Parser.MinVoteCount <= 0 {
		opts.Parser.MinVoteCount = def.Parser.MinVoteCount
	}
	if opts.Parser.Region == "" {
		opts.Parser.Region = def.Parser.Region
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Loader{api: api, stores: stores, cache: cache, opts: opts}
}

// Running reports whether a run is executing.
func (l *Loader) Running() bool {
	return l.running.Load()
}

func (l *Loader) now() time.Time {
	return l.opts.Now().UTC()
}

// RunSync executes one sync run.
//
// An error is returned only when mode is unknown, another run is in
// progress, or the run record cannot be created. Phase failures are
// reported in RunSummary.Errors.
func (l *Loader) RunSync(ctx context.Context, mode Mode) (*RunSummary, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if !l.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer l.running.Store(false)

	metrics.SyncRunning.Set(1)
	defer metrics.SyncRunning.Set(0)

	summary := newRunSummary(uuid.NewString(), mode, l.now())
	ctx = logging.ContextWithRunID(ctx, summary.ID)
	log := logging.Ctx(ctx)

	run := models.SyncRun{ID: summary.ID, Mode: string(mode), StartedAt: summary.StartedAt}
	if err := l.stores.Runs.CreateSyncRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record sync run: %w", err)
	}
	log.Info().Str("mode", string(mode)).Msg("[LOADER] Sync run started")

	l.runPhases(ctx, mode, summary)

	summary.EndedAt = l.now()
	l.finish(ctx, summary)

	log.Info().
		Str("mode", string(mode)).
		Dur("duration", summary.Duration()).
		Int("errors", len(summary.Errors)).
		Msg("[LOADER] Sync run finished")
	return summary, nil
}

func (l *Loader) runPhases(ctx context.Context, mode Mode, summary *RunSummary) {
	if mode == ModeFull {
		l.cache.Clear()
	}

	if err := l.refreshReference(ctx, summary); err != nil {
		l.phaseFailed(ctx, summary, "reference", err)
	}

	movies, moviesOK := l.syncMedia(ctx, mode, tmdb.ResourceMovie, summary, l.processMovieChunk)
	shows, showsOK := l.syncMedia(ctx, mode, tmdb.ResourceTV, summary, l.processShowChunk)

	if changed, err := l.changedIDs(ctx, tmdb.ResourcePerson); err != nil {
		l.phaseFailed(ctx, summary, "persons", err)
	} else if err := l.refreshPersons(ctx, changed, summary.Report(entityPersons), summary.Report(entityCredits)); err != nil {
		l.phaseFailed(ctx, summary, "persons", err)
	}

	if err := l.stores.Counts.RecomputeCounts(ctx); err != nil {
		l.phaseFailed(ctx, summary, "counts", err)
	}

	if mode != ModeFull {
		return
	}
	if moviesOK {
		if err := l.deleteOrphanMovies(ctx, movies, summary); err != nil {
			l.phaseFailed(ctx, summary, "orphans", err)
		}
	}
	if showsOK {
		if err := l.deleteOrphanShows(ctx, shows, summary); err != nil {
			l.phaseFailed(ctx, summary, "orphans", err)
		}
	}
}

type chunkFunc func(ctx context.Context, ids []int64, summary *RunSummary) error

// syncMedia discovers the ids of resource and processes them chunk by
// chunk. ok is false when discovery failed.
func (l *Loader) syncMedia(ctx context.Context, mode Mode, resource tmdb.Resource, summary *RunSummary, process chunkFunc) (ids []int64, ok bool) {
	phase := "discover " + string(resource)
	ids, err := l.discover(ctx, mode, resource)
	if err != nil {
		l.phaseFailed(ctx, summary, phase, err)
		return nil, false
	}

	batches := chunks(ids, l.opts.ChunkSize)
	for i, chunk := range batches {
		if ctx.Err() != nil {
			l.phaseFailed(ctx, summary, string(resource), ctx.Err())
			break
		}
		if err := process(ctx, chunk, summary); err != nil {
			l.phaseFailed(ctx, summary, fmt.Sprintf("%s chunk %d/%d", resource, i+1, len(batches)), err)
		}
	}
	return ids, true
}

func (l *Loader) processMovieChunk(ctx context.Context, ids []int64, summary *RunSummary) error {
	out, err := reconcile(ctx, l, l.movieEntity(), ids, summary.Report(entityMovies))
	if err != nil {
		return err
	}

	media := make([]parser.Media, 0, len(out.Mutated))
	for _, raw := range out.Mutated {
		media = append(media, parser.MovieMedia(raw, l.opts.Parser))
	}
	return l.relate(ctx, media, summary)
}

func (l *Loader) processShowChunk(ctx context.Context, ids []int64, summary *RunSummary) error {
	out, err := reconcile(ctx, l, l.showEntity(), ids, summary.Report(entityShows))
	if err != nil {
		return err
	}

	seasonCredits, err := l.replaceSeasons(ctx, out.Mutated, summary.Report(entitySeasons))
	if err != nil {
		return err
	}

	media := make([]parser.Media, 0, len(out.Mutated))
	for _, raw := range out.Mutated {
		media = append(media, parser.ShowMedia(raw, seasonCredits[raw.ID], l.opts.Parser))
	}
	return l.relate(ctx, media, summary)
}

// relate backfills the persons media references, then reconciles its
// credits and provider links.
func (l *Loader) relate(ctx context.Context, media []parser.Media, summary *RunSummary) error {
	if len(media) == 0 {
		return nil
	}
	if err := l.backfillPersons(ctx, media, summary.Report(entityPersons)); err != nil {
		return err
	}
	return l.reconcileRelations(ctx, media, summary)
}

func (l *Loader) phaseFailed(ctx context.Context, summary *RunSummary, phase string, err error) {
	summary.fail(phase, err)
	logging.Ctx(ctx).Error().Err(err).Str("phase", phase).Msg("[LOADER] Sync phase failed")
}

// finish persists the summary on the run record and exports metrics.
func (l *Loader) finish(ctx context.Context, summary *RunSummary) {
	summary.recordMetrics()
	metrics.RecordSyncRun(string(summary.Mode), summary.Duration(), len(summary.Errors))

	data, err := json.Marshal(summary)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("[LOADER] Failed to encode run summary")
		data = []byte("{}")
	}
	// The run is recorded even when ctx was cancelled mid-run.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := l.stores.Runs.CompleteSyncRun(recordCtx, summary.ID, summary.EndedAt, string(data)); err != nil {
		summary.fail("record", err)
		logging.Ctx(ctx).Error().Err(err).Msg("[LOADER] Failed to complete sync run record")
	}
}
