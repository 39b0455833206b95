// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// The package is only compiled with the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// # Postgres Container
//
// PostgresContainer runs a disposable Postgres server so the store can be
// exercised against the server driver as well as embedded DuckDB:
//
//	func TestStorePostgres(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//
//	    db, err := database.New(&config.DatabaseConfig{Driver: "postgres", DSN: pg.DSN})
//	    // ...
//	}
//
// Tests are skipped when Docker is not available.
package testinfra
