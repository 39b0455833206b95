// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package services provides suture.Service wrappers for Reelsync components.

Each wrapper translates a component lifecycle (Start/Stop, ListenAndServe,
a periodic task) into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Available services:

  - HTTPServerService wraps the admin *http.Server with graceful shutdown.
  - SyncService wraps sync.Manager.
  - EventsService wraps eventprocessor.Components (embedded NATS server,
    stream, publisher).
  - MaintenanceService runs a task on a fixed interval; it drives the
    BadgerDB value log GC of the response cache.

Every service returns ctx.Err() after a requested shutdown, so suture
does not treat a clean stop as a failure.
*/
package services
