// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package eventprocessor

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/reelsync/internal/loader"
)

func testSummary() *loader.RunSummary {
	started := time.Date(2026, time.June, 15, 3, 0, 0, 0, time.UTC)
	return &loader.RunSummary{
		ID:        "0b6f3a7e-5d1c-4c33-9f61-3f4c2f1d8a10",
		Mode:      loader.ModeIncremental,
		StartedAt: started,
		EndedAt:   started.Add(90 * time.Second),
		Reports: map[string]*loader.Report{
			"movies":  {Requested: 4, Fetched: 4, Created: 1, Updated: 2, Unchanged: 1},
			"credits": {Created: 12, Deleted: 3},
			"genres":  {Unchanged: 19},
		},
		Errors: []string{"show chunk 1/1: context deadline exceeded"},
	}
}

func TestNewRunCompletedEvent(t *testing.T) {
	event := NewRunCompletedEvent(testSummary())

	if event.RunID != "0b6f3a7e-5d1c-4c33-9f61-3f4c2f1d8a10" || event.Mode != "incremental" {
		t.Errorf("event identity = %s/%s", event.RunID, event.Mode)
	}
	if event.DurationMS != 90000 {
		t.Errorf("DurationMS = %d, want 90000", event.DurationMS)
	}
	if _, ok := event.Entities["genres"]; ok {
		t.Error("entities without writes must be omitted")
	}
	if got := event.Entities["movies"]; got != (EntityCounts{Created: 1, Updated: 2}) {
		t.Errorf("movies = %+v", got)
	}
	if event.Writes() != 18 {
		t.Errorf("Writes() = %d, want 18", event.Writes())
	}
	if event.Succeeded() {
		t.Error("event with phase errors reported success")
	}
	if err := event.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRunCompletedEvent_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunCompletedEvent)
	}{
		{"missing event id", func(e *RunCompletedEvent) { e.EventID = "" }},
		{"missing run id", func(e *RunCompletedEvent) { e.RunID = "" }},
		{"unknown mode", func(e *RunCompletedEvent) { e.Mode = "weekly" }},
		{"ends before start", func(e *RunCompletedEvent) { e.EndedAt = e.StartedAt.Add(-time.Second) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewRunCompletedEvent(testSummary())
			tt.mutate(event)
			if err := event.Validate(); !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("Validate() = %v, want ErrInvalidEvent", err)
			}
			if _, err := SerializeEvent(event); err == nil {
				t.Error("SerializeEvent accepted an invalid event")
			}
		})
	}
}

func TestSerializeEvent_RoundTrip(t *testing.T) {
	event := NewRunCompletedEvent(testSummary())
	data, err := SerializeEvent(event)
	if err != nil {
		t.Fatalf("SerializeEvent: %v", err)
	}
	decoded, err := DeserializeEvent(data)
	if err != nil {
		t.Fatalf("DeserializeEvent: %v", err)
	}
	if decoded.EventID != event.EventID || decoded.Entities["credits"].Deleted != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
	if !decoded.StartedAt.Equal(event.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", decoded.StartedAt, event.StartedAt)
	}
}
