// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/reelsync/internal/loader"
	"github.com/tomtom215/reelsync/internal/models"
)

// mockRunner implements Runner.
type mockRunner struct {
	runFunc func(ctx context.Context, mode loader.Mode) (*loader.RunSummary, error)
	running atomic.Bool

	mu    sync.Mutex
	modes []loader.Mode
	done  chan loader.Mode
}

func newMockRunner() *mockRunner {
	return &mockRunner{done: make(chan loader.Mode, 10)}
}

func (r *mockRunner) RunSync(ctx context.Context, mode loader.Mode) (*loader.RunSummary, error) {
	r.running.Store(true)
	defer r.running.Store(false)

	r.mu.Lock()
	r.modes = append(r.modes, mode)
	r.mu.Unlock()
	defer func() { r.done <- mode }()

	if r.runFunc != nil {
		return r.runFunc(ctx, mode)
	}
	now := time.Now().UTC()
	return &loader.RunSummary{
		ID:        "run-" + string(mode),
		Mode:      mode,
		StartedAt: now,
		EndedAt:   now,
		Reports:   map[string]*loader.Report{"movies": {Created: 2}},
	}, nil
}

func (r *mockRunner) Running() bool {
	return r.running.Load()
}

// mockHistory implements RunHistory.
type mockHistory struct {
	lastFunc func(ctx context.Context, mode string) (*models.SyncRun, error)
}

func (h *mockHistory) LastCompletedRun(ctx context.Context, mode string) (*models.SyncRun, error) {
	return h.lastFunc(ctx, mode)
}

// mockPublisher implements RunPublisher.
type mockPublisher struct {
	published chan *loader.RunSummary
	err       error
}

func (p *mockPublisher) PublishRunCompleted(_ context.Context, summary *loader.RunSummary) error {
	p.published <- summary
	return p.err
}
