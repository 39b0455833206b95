// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/database"
	"github.com/tomtom215/reelsync/internal/loader"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/models"
)

var (
	// ErrNotRunning is returned by TriggerSync and Stop before Start.
	ErrNotRunning = errors.New("sync manager is not running")

	// ErrTriggerPending is returned when a manual run is already queued.
	ErrTriggerPending = errors.New("a manual sync run is already queued")
)

// publishTimeout bounds one asynchronous run event publish.
const publishTimeout = 10 * time.Second

// Runner executes sync runs. Implemented by *loader.Loader.
type Runner interface {
	RunSync(ctx context.Context, mode loader.Mode) (*loader.RunSummary, error)
	Running() bool
}

// RunHistory reads completed runs. Implemented by *database.DB.
type RunHistory interface {
	LastCompletedRun(ctx context.Context, mode string) (*models.SyncRun, error)
}

// RunPublisher announces completed runs. Implemented by
// *eventprocessor.Components.
type RunPublisher interface {
	PublishRunCompleted(ctx context.Context, summary *loader.RunSummary) error
}

// Manager schedules loader runs.
type Manager struct {
	runner  Runner
	history RunHistory
	cfg     config.SyncConfig
	now     func() time.Time

	mu          sync.RWMutex
	running     bool
	stopChan    chan struct{}
	lastSummary *loader.RunSummary
	lastErr     error
	nextRunAt   time.Time
	publisher   RunPublisher
	onCompleted func(summary *loader.RunSummary)

	triggers  chan loader.Mode
	wg        sync.WaitGroup
	publishWg sync.WaitGroup
}

// NewManager creates a Manager. A non-positive interval defaults to 6h.
func NewManager(runner Runner, history RunHistory, cfg config.SyncConfig) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	logging.Info().
		Dur("interval", cfg.Interval).
		Dur("full_interval", cfg.FullInterval).
		Bool("run_on_startup", cfg.RunOnStartup).
		Msg("Sync manager config loaded")

	return &Manager{
		runner:   runner,
		history:  history,
		cfg:      cfg,
		now:      time.Now,
		triggers: make(chan loader.Mode, 1),
	}
}

// SetPublisher sets the publisher completed runs are announced on.
func (m *Manager) SetPublisher(p RunPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publisher = p
}

// SetOnSyncCompleted sets the callback invoked after every run that
// produced a summary.
func (m *Manager) SetOnSyncCompleted(callback func(summary *loader.RunSummary)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCompleted = callback
}

// Start begins the periodic synchronization process.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is already running")
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.nextRunAt = m.now().Add(m.cfg.Interval)
	m.mu.Unlock()

	logging.Info().Msg("Starting sync manager...")

	m.wg.Add(1)
	go m.loop(ctx)
	return nil
}

// Stop ends the schedule and waits for the loop and pending publishes.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	m.running = false
	close(m.stopChan)
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync manager...")
	m.wg.Wait()
	m.publishWg.Wait()
	logging.Info().Msg("Sync manager stopped")
	return nil
}

// TriggerSync queues a manual run of mode. It returns without waiting
// for the run.
func (m *Manager) TriggerSync(mode loader.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", loader.ErrUnknownMode, mode)
	}
	m.mu.RLock()
	running := m.running
	m.mu.RUnlock()
	if !running {
		return ErrNotRunning
	}
	if m.runner.Running() {
		return loader.ErrRunInProgress
	}

	select {
	case m.triggers <- mode:
		logging.Info().Str("mode", string(mode)).Msg("Manual sync queued")
		return nil
	default:
		return ErrTriggerPending
	}
}

func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()

	m.mu.RLock()
	stop := m.stopChan
	m.mu.RUnlock()

	if m.cfg.RunOnStartup {
		m.runScheduled(ctx)
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			m.runScheduled(ctx)
		case mode := <-m.triggers:
			m.run(ctx, mode)
		}
	}
}

func (m *Manager) runScheduled(ctx context.Context) {
	m.mu.Lock()
	m.nextRunAt = m.now().Add(m.cfg.Interval)
	m.mu.Unlock()

	m.run(ctx, m.scheduledMode(ctx))
}

// scheduledMode picks full when the newest completed full run is older
// than FullInterval or missing, incremental otherwise.
func (m *Manager) scheduledMode(ctx context.Context) loader.Mode {
	if m.cfg.FullInterval <= 0 {
		return loader.ModeIncremental
	}
	last, err := m.history.LastCompletedRun(ctx, string(loader.ModeFull))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return loader.ModeFull
	case err != nil:
		logging.Warn().Err(err).Msg("Could not read last full run, running incremental")
		return loader.ModeIncremental
	case m.now().Sub(last.StartedAt) >= m.cfg.FullInterval:
		return loader.ModeFull
	default:
		return loader.ModeIncremental
	}
}

func (m *Manager) run(ctx context.Context, mode loader.Mode) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	summary, err := m.runner.RunSync(ctx, mode)

	m.mu.Lock()
	m.lastErr = err
	if summary != nil {
		m.lastSummary = summary
	}
	callback := m.onCompleted
	publisher := m.publisher
	m.mu.Unlock()

	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("mode", string(mode)).Msg("Sync run did not start")
		return
	}
	if callback != nil {
		callback(summary)
	}
	if publisher != nil {
		m.publish(ctx, publisher, summary)
	}
}

func (m *Manager) publish(ctx context.Context, publisher RunPublisher, summary *loader.RunSummary) {
	m.publishWg.Add(1)
	go func() {
		defer m.publishWg.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := publisher.PublishRunCompleted(pubCtx, summary); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to publish run event")
		}
	}()
}
