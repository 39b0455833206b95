// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelsync/internal/metrics"
	"github.com/tomtom215/reelsync/internal/models"
)

// CreateSyncRun records the start of a run. EndedAt is stored as NULL.
func (db *DB) CreateSyncRun(ctx context.Context, run models.SyncRun) error {
	run.StartedAt = run.StartedAt.UTC()
	run.EndedAt = nil
	run.Summary = nil
	_, err := db.runs.CreateMany(ctx, []models.SyncRun{run})
	return err
}

// CompleteSyncRun sets the end timestamp and JSON summary of a run.
func (db *DB) CompleteSyncRun(ctx context.Context, id string, endedAt time.Time, summary string) error {
	query := `UPDATE "sync_runs" SET "ended_at" = $1, "summary" = $2 WHERE "id" = $3`

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, endedAt.UTC(), summary, id)
	metrics.RecordDBQuery("complete", "sync_runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("complete sync run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete sync run %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("complete sync run %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListSyncRuns returns the most recent runs, newest first.
func (db *DB) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	qb := newQueryBuilder(db.runs.selectSQL)
	query, args := qb.build(fmt.Sprintf(`ORDER BY "started_at" DESC LIMIT %s`, qb.placeholder(limit)))

	start := time.Now()
	runs, err := queryAndScan(ctx, db.conn, query, args, db.runs.scan)
	metrics.RecordDBQuery("list", "sync_runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

// LastCompletedRun returns the newest finished run of mode, or ErrNotFound.
func (db *DB) LastCompletedRun(ctx context.Context, mode string) (*models.SyncRun, error) {
	qb := newQueryBuilder(db.runs.selectSQL)
	qb.addFilter(`"mode" = ` + qb.placeholder(mode)).addFilter(`"ended_at" IS NOT NULL`)
	query, args := qb.build(`ORDER BY "started_at" DESC LIMIT 1`)

	start := time.Now()
	runs, err := queryAndScan(ctx, db.conn, query, args, db.runs.scan)
	metrics.RecordDBQuery("last_completed", "sync_runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("last completed %s run: %w", mode, err)
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}
