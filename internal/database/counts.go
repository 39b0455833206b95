// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/reelsync/internal/metrics"
)

// GroupCount is one group of GroupByCount.
type GroupCount struct {
	Key   interface{}
	Count int64
}

// GroupByCount counts the rows of table per non-null value of column.
func (db *DB) GroupByCount(ctx context.Context, table, column string) ([]GroupCount, error) {
	query := fmt.Sprintf("SELECT %[2]s, COUNT(*) FROM %[1]s WHERE %[2]s IS NOT NULL GROUP BY %[2]s",
		quoteIdent(table), quoteIdent(column))

	start := time.Now()
	groups, err := queryAndScan(ctx, db.conn, query, nil, func(rows *sql.Rows) (GroupCount, error) {
		var g GroupCount
		err := rows.Scan(&g.Key, &g.Count)
		// lib/pq returns text columns as []byte
		if b, ok := g.Key.([]byte); ok {
			g.Key = string(b)
		}
		return g, err
	})
	metrics.RecordDBQuery("group_count", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("group %s by %s: %w", table, column, err)
	}
	return groups, nil
}

// RecomputeCounts sets languages.count to the number of movies per
// language and providers.count to the number of provider links per
// provider.
func (db *DB) RecomputeCounts(ctx context.Context) error {
	if err := db.recomputeCount(ctx, "languages", "movies", "language_id"); err != nil {
		return err
	}
	return db.recomputeCount(ctx, "providers", "provider_links", "provider_id")
}

func (db *DB) recomputeCount(ctx context.Context, target, source, column string) error {
	groups, err := db.GroupByCount(ctx, source, column)
	if err != nil {
		return err
	}

	start := time.Now()
	err = db.writeCounts(ctx, target, groups)
	metrics.RecordDBQuery("recompute_count", target, time.Since(start), err)
	return err
}

func (db *DB) writeCounts(ctx context.Context, target string, groups []GroupCount) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recompute %s counts: begin: %w", target, err)
	}

	reset := fmt.Sprintf("UPDATE %s SET %s = 0", quoteIdent(target), quoteIdent("count"))
	if _, err := tx.ExecContext(ctx, reset); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("recompute %s counts: reset: %w", target, err)
	}

	update := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2", quoteIdent(target), quoteIdent("count"), quoteIdent("id"))
	for _, g := range groups {
		if _, err := tx.ExecContext(ctx, update, g.Count, g.Key); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recompute %s counts: %w", target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recompute %s counts: commit: %w", target, err)
	}
	return nil
}
