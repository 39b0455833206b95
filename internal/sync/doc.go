// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package sync schedules loader runs.
//
// Manager runs an incremental sync every sync.interval and upgrades the
// scheduled run to a full sync when the newest completed full run is
// older than sync.full_interval, or when none was ever recorded. Manual
// runs are queued with TriggerSync and executed by the same goroutine,
// so scheduled and manual runs never overlap.
//
// After each run the completion callback fires and, when a publisher is
// set, the run summary is published asynchronously. Publishing never
// blocks the schedule; Stop waits for in-flight publishes.
//
// Manager implements the Start/Stop contract expected by
// supervisor/services.SyncService.
package sync
