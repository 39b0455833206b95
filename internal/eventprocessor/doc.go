// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package eventprocessor publishes sync run events to NATS through
// Watermill.
//
// Every completed loader run is announced as a RunCompletedEvent on the
// configured topic (sync.run.completed by default) so downstream
// consumers can react to catalog changes without polling the database:
//
//	┌─────────────┐   ┌──────────────┐   ┌────────────────────┐
//	│ sync.Manager│──▶│  Publisher   │──▶│ NATS (JetStream     │
//	│  (runs)     │   │ (watermill + │   │ stream SYNC_RUNS)   │
//	└─────────────┘   │  gobreaker)  │   └────────────────────┘
//	                  └──────────────┘
//
// # Deployment
//
// Components owns the optional embedded NATS server, the JetStream
// stream and the publisher. With nats.embedded_server set the process
// runs its own NATS server with JetStream stored under nats.store_dir;
// otherwise it connects to nats.url.
//
// # Delivery
//
// Publishing is best effort. The run record in the database is the
// source of truth; a failed publish is logged and counted in
// reelsync_events_published_total{status="failure"} but never fails
// the run. The event id doubles as the Nats-Msg-Id header so JetStream
// drops duplicates inside the stream's duplicate window.
package eventprocessor
