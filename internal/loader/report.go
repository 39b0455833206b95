// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package loader

import (
	"fmt"
	"time"

	"github.com/tomtom215/reelsync/internal/metrics"
)

// Mode selects how a run discovers ids.
type Mode string

const (
	ModeIncremental Mode = "incremental"
	ModeFull        Mode = "full"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeIncremental || m == ModeFull
}

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Entity names used as RunSummary.Reports keys and metric labels.
const (
	entityGenres        = "genres"
	entityLanguages     = "languages"
	entityProviders     = "providers"
	entityMovies        = "movies"
	entityShows         = "shows"
	entitySeasons       = "seasons"
	entityPersons       = "persons"
	entityCredits       = "credits"
	entityProviderLinks = "provider_links"
)

// Report counts what a run did to one entity type.
type Report struct {
	Requested    int `json:"requested"`
	Fetched      int `json:"fetched"`
	NotFound     int `json:"not_found"`
	FetchFailed  int `json:"fetch_failed"`
	Validated    int `json:"validated"`
	Invalid      int `json:"invalid"`
	Created      int `json:"created"`
	Updated      int `json:"updated"`
	UpdateFailed int `json:"update_failed"`
	Unchanged    int `json:"unchanged"`
	Deleted      int `json:"deleted"`
}

// Writes is the number of rows created, updated or deleted.
func (r Report) Writes() int {
	return r.Created + r.Updated + r.Deleted
}

// UpdateResult is the outcome of updating one row.
type UpdateResult[T any] struct {
	Row T
	Err error
}

// RunSummary describes one RunSync invocation. It is persisted as JSON on
// the run's sync_runs row.
type RunSummary struct {
	ID        string             `json:"id"`
	Mode      Mode               `json:"mode"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at"`
	Reports   map[string]*Report `json:"reports"`
	Errors    []string           `json:"errors,omitempty"`
}

func newRunSummary(id string, mode Mode, startedAt time.Time) *RunSummary {
	return &RunSummary{
		ID:        id,
		Mode:      mode,
		StartedAt: startedAt,
		Reports:   make(map[string]*Report),
	}
}

// Report returns the report for entity, creating it on first use.
func (s *RunSummary) Report(entity string) *Report {
	r, ok := s.Reports[entity]
	if !ok {
		r = &Report{}
		s.Reports[entity] = r
	}
	return r
}

// Duration is the wall time of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

func (s *RunSummary) fail(phase string, err error) {
	s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", phase, err))
	metrics.SyncPhaseErrors.WithLabelValues(phase).Inc()
}

// recordMetrics exports the per-entity counts of the summary.
func (s *RunSummary) recordMetrics() {
	for entity, r := range s.Reports {
		metrics.RecordEntityOperation(entity, "created", r.Created)
		metrics.RecordEntityOperation(entity, "updated", r.Updated)
		metrics.RecordEntityOperation(entity, "deleted", r.Deleted)
		metrics.RecordEntityOperation(entity, "unchanged", r.Unchanged)
		metrics.RecordEntityOperation(entity, "invalid", r.Invalid)
		metrics.RecordEntityOperation(entity, "fetch_failed", r.FetchFailed)
		metrics.RecordEntityOperation(entity, "update_failed", r.UpdateFailed)
	}
}
