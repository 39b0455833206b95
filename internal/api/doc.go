// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package api serves the admin HTTP API.

Routes:

	GET  /api/v1/health           database reachability and scheduler state
	GET  /api/v1/sync/status      scheduler status and last run
	GET  /api/v1/sync/runs?limit  run history, newest first (1-100, default 20)
	POST /api/v1/sync             queue a manual run: {"mode":"full"|"incremental"}
	GET  /metrics                 Prometheus exposition

Every JSON response uses the APIResponse envelope. POST /api/v1/sync is
rate limited per client IP and answers 202 when queued, 409 when a run is
already executing or queued, 503 when the scheduler is stopped.
*/
package api
