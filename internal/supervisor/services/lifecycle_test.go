// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// mockManager implements StartStopManager.
type mockManager struct {
	startErr error
	stopErr  error
	started  atomic.Int32
	stopped  atomic.Int32
}

func (m *mockManager) Start(context.Context) error {
	m.started.Add(1)
	return m.startErr
}

func (m *mockManager) Stop() error {
	m.stopped.Add(1)
	return m.stopErr
}

// mockComponents implements EventsRunner.
type mockComponents struct {
	startErr error
	running  atomic.Bool
	shutdown atomic.Int32
}

func (m *mockComponents) Start(context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.running.Store(true)
	return nil
}

func (m *mockComponents) Shutdown(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		panic("shutdown context without deadline")
	}
	m.shutdown.Add(1)
	m.running.Store(false)
}

func (m *mockComponents) IsRunning() bool { return m.running.Load() }

func serveUntilCancel(t *testing.T, serve func(ctx context.Context) error, ready func() bool) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !ready() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
		return nil
	}
}

func TestSyncService_StartsAndStopsManager(t *testing.T) {
	mgr := &mockManager{}
	svc := NewSyncService(mgr)

	err := serveUntilCancel(t, svc.Serve, func() bool { return mgr.started.Load() == 1 })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if mgr.stopped.Load() != 1 {
		t.Errorf("Stop called %d times, want 1", mgr.stopped.Load())
	}
}

func TestSyncService_StartFailure(t *testing.T) {
	mgr := &mockManager{startErr: errors.New("sync manager is already running")}
	if err := NewSyncService(mgr).Serve(context.Background()); !errors.Is(err, mgr.startErr) {
		t.Errorf("Serve() = %v, want start error", err)
	}
	if mgr.stopped.Load() != 0 {
		t.Error("Stop called after failed Start")
	}
}

func TestEventsService_Lifecycle(t *testing.T) {
	comps := &mockComponents{}
	svc := NewEventsService(comps, time.Second)

	err := serveUntilCancel(t, svc.Serve, comps.IsRunning)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if comps.shutdown.Load() != 1 || comps.IsRunning() {
		t.Errorf("shutdown count = %d, running = %v", comps.shutdown.Load(), comps.IsRunning())
	}
}

func TestEventsService_StartFailure(t *testing.T) {
	comps := &mockComponents{startErr: errors.New("NATS server not ready within 30s")}
	if err := NewEventsService(comps, 0).Serve(context.Background()); !errors.Is(err, comps.startErr) {
		t.Errorf("Serve() = %v, want start error", err)
	}
}

func TestMaintenanceService_RunsTaskUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	svc := NewMaintenanceService("badger-gc", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("value log gc: io error")
	})

	err := serveUntilCancel(t, svc.Serve, func() bool { return runs.Load() >= 2 })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if runs.Load() < 2 {
		t.Errorf("task ran %d times, want at least 2 despite errors", runs.Load())
	}
	if svc.String() != "badger-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}
