// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/reelsync/internal/loader"
)

// SchemaVersion is the current event schema version.
// Increment this when making breaking changes to RunCompletedEvent.
const SchemaVersion = 1

// EntityCounts are the writes a run made to one table.
type EntityCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// RunCompletedEvent announces the end of a sync run.
type RunCompletedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`

	RunID      string    `json:"run_id"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMS int64     `json:"duration_ms"`

	Entities map[string]EntityCounts `json:"entities"`
	Errors   []string                `json:"errors,omitempty"`
}

// NewRunCompletedEvent builds the event for summary.
func NewRunCompletedEvent(summary *loader.RunSummary) *RunCompletedEvent {
	entities := make(map[string]EntityCounts, len(summary.Reports))
	for name, r := range summary.Reports {
		if r.Writes() == 0 {
			continue
		}
		entities[name] = EntityCounts{Created: r.Created, Updated: r.Updated, Deleted: r.Deleted}
	}
	return &RunCompletedEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Timestamp:     time.Now().UTC(),
		RunID:         summary.ID,
		Mode:          string(summary.Mode),
		StartedAt:     summary.StartedAt,
		EndedAt:       summary.EndedAt,
		DurationMS:    summary.Duration().Milliseconds(),
		Entities:      entities,
		Errors:        summary.Errors,
	}
}

// Succeeded reports whether the run finished without phase errors.
func (e *RunCompletedEvent) Succeeded() bool {
	return len(e.Errors) == 0
}

// Writes is the total number of rows the run wrote.
func (e *RunCompletedEvent) Writes() int {
	total := 0
	for _, c := range e.Entities {
		total += c.Created + c.Updated + c.Deleted
	}
	return total
}

// Validate checks required fields and returns an error if validation fails.
func (e *RunCompletedEvent) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	case e.RunID == "":
		return fmt.Errorf("%w: run_id is required", ErrInvalidEvent)
	case !loader.Mode(e.Mode).Valid():
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidEvent, e.Mode)
	case e.EndedAt.Before(e.StartedAt):
		return fmt.Errorf("%w: ended_at before started_at", ErrInvalidEvent)
	}
	return nil
}
