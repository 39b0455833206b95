// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package main is the entry point for the Reelsync server.

Reelsync mirrors the TMDB movie and TV catalog into a local DuckDB or
PostgreSQL database and keeps it current with incremental runs driven by the
TMDB changes feed.

# Application Architecture

	RootSupervisor ("reelsync")
	├── DataSupervisor ("data-layer")
	│   └── Badger GC (when cache.badger_enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Sync Manager (scheduled and manual runs)
	│   └── Event publisher (when nats.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (admin API and /metrics)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional file, environment
 2. Logging: zerolog with JSON/console output
 3. Database: DuckDB or PostgreSQL, schema migrated on open
 4. TMDB client: rate limited, retried, behind a circuit breaker
 5. Loader and Sync Manager
 6. NATS event publisher (optional)
 7. Supervisor tree and HTTP server

# Configuration

	TMDB_ACCESS_TOKEN=<v4 token>  # or TMDB_API_KEY
	DATABASE_DRIVER=duckdb        # duckdb or postgres
	DUCKDB_PATH=/data/reelsync.duckdb
	DATABASE_URL=postgres://...   # postgres driver only
	SYNC_INTERVAL=6h
	SYNC_FULL_INTERVAL=720h
	SYNC_RUN_ON_STARTUP=true
	CACHE_BADGER_ENABLED=true
	NATS_ENABLED=false
	HTTP_PORT=8080
	LOG_LEVEL=info

CONFIG_PATH points at an optional YAML file with the same keys.

# Signals

SIGINT and SIGTERM stop the supervisor tree. A run in progress is cancelled
and records what it completed; the next run picks up from the database.
*/
package main
