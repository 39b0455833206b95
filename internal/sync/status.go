// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package sync

import (
	"time"

	"github.com/tomtom215/reelsync/internal/loader"
)

// RunStatus describes the last run the manager executed.
type RunStatus struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMS int64     `json:"duration_ms"`
	Writes     int       `json:"writes"`
	Errors     []string  `json:"errors,omitempty"`
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	SchedulerRunning bool       `json:"scheduler_running"`
	SyncInProgress   bool       `json:"sync_in_progress"`
	Interval         string     `json:"interval"`
	FullInterval     string     `json:"full_interval"`
	NextRunAt        *time.Time `json:"next_run_at,omitempty"`
	LastRun          *RunStatus `json:"last_run,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
}

// Status returns the scheduler status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Status{
		SchedulerRunning: m.running,
		SyncInProgress:   m.runner.Running(),
		Interval:         m.cfg.Interval.String(),
		FullInterval:     m.cfg.FullInterval.String(),
	}
	if m.running {
		next := m.nextRunAt
		st.NextRunAt = &next
	}
	if m.lastSummary != nil {
		st.LastRun = runStatus(m.lastSummary)
	}
	if m.lastErr != nil {
		st.LastError = m.lastErr.Error()
	}
	return st
}

// LastSummary returns the summary of the last run, or nil.
func (m *Manager) LastSummary() *loader.RunSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSummary
}

func runStatus(s *loader.RunSummary) *RunStatus {
	writes := 0
	for _, r := range s.Reports {
		writes += r.Writes()
	}
	return &RunStatus{
		ID:         s.ID,
		Mode:       string(s.Mode),
		StartedAt:  s.StartedAt,
		EndedAt:    s.EndedAt,
		DurationMS: s.Duration().Milliseconds(),
		Writes:     writes,
		Errors:     s.Errors,
	}
}
