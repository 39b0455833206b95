// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package database is the relational store of the catalog.
//
// # Overview
//
// The package owns the schema and exposes every table through the generic
// Table[T], which maps a struct's `db` tags to columns and implements the
// four operations reconciliation needs:
//
//   - FindMany: rows matching ANDed column IN (...) conditions
//   - CreateMany: all-or-nothing bulk insert inside one transaction
//   - UpdateOne: full-row update by primary key
//   - DeleteMany: delete by conditions, never unconditionally
//
// Count maintenance (languages.count, providers.count) and the sync_runs
// history are plain methods on DB.
//
// # Drivers
//
// Two database/sql drivers are supported and selected by database.driver:
//
//   - duckdb (default): embedded, file or ":memory:", github.com/duckdb/duckdb-go/v2
//   - postgres: server deployments, github.com/lib/pq
//
// All generated SQL uses $n placeholders and double-quoted identifiers,
// which both engines accept. Secondary indexes are only created on
// Postgres; DuckDB relies on zonemaps and its primary key indexes.
//
// # Thread Safety
//
// DB and Table are safe for concurrent use. Concurrent UpdateOne calls on
// DuckDB may hit optimistic transaction conflicts, which are retried with
// a short backoff.
package database
