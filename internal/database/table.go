// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/tomtom215/reelsync/internal/metrics"
)

type column struct {
	name  string
	index int
}

// Table maps the `db` tagged fields of T to the columns of one table.
type Table[T any] struct {
	db      *DB
	name    string
	columns []column
	keys    []column

	selectSQL string
	insertSQL string
	updateSQL string // empty when every column is part of the key
}

func newTable[T any](db *DB, name string, keys ...string) *Table[T] {
	t := &Table[T]{db: db, name: name}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		colName, _, _ := strings.Cut(sf.Tag.Get("db"), ",")
		if colName == "" || colName == "-" {
			continue
		}
		t.columns = append(t.columns, column{name: colName, index: i})
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	var data []column
	for _, c := range t.columns {
		if isKey[c.name] {
			t.keys = append(t.keys, c)
		} else {
			data = append(data, c)
		}
	}

	names := make([]string, len(t.columns))
	marks := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = quoteIdent(c.name)
		marks[i] = fmt.Sprintf("$%d", i+1)
	}
	t.selectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), quoteIdent(name))
	t.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(name), strings.Join(names, ", "), strings.Join(marks, ", "))

	if len(data) > 0 {
		sets := make([]string, len(data))
		for i, c := range data {
			sets[i] = fmt.Sprintf("%s = $%d", quoteIdent(c.name), i+1)
		}
		where := make([]string, len(t.keys))
		for i, c := range t.keys {
			where[i] = fmt.Sprintf("%s = $%d", quoteIdent(c.name), len(data)+i+1)
		}
		t.updateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE %s", quoteIdent(name), strings.Join(sets, ", "), strings.Join(where, " AND "))
	}
	return t
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// columnValue converts a field to a driver-native value. Named string and
// integer types are unwrapped and nil pointers become NULL.
func columnValue(v reflect.Value) interface{} {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return columnValue(v.Elem())
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Bool:
		return v.Bool()
	default:
		return v.Interface()
	}
}

func (t *Table[T]) values(row T, cols []column) []interface{} {
	rv := reflect.ValueOf(row)
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		args[i] = columnValue(rv.Field(c.index))
	}
	return args
}

func (t *Table[T]) insertArgs(row T) []interface{} {
	return t.values(row, t.columns)
}

func (t *Table[T]) updateArgs(row T) []interface{} {
	var data []column
	for _, c := range t.columns {
		if !t.isKey(c) {
			data = append(data, c)
		}
	}
	return append(t.values(row, data), t.values(row, t.keys)...)
}

func (t *Table[T]) isKey(c column) bool {
	for _, k := range t.keys {
		if k.index == c.index {
			return true
		}
	}
	return false
}

// scan reads one row into a new T
func (t *Table[T]) scan(rows *sql.Rows) (T, error) {
	var row T
	rv := reflect.ValueOf(&row).Elem()
	dest := make([]interface{}, len(t.columns))
	for i, c := range t.columns {
		dest[i] = rv.Field(c.index).Addr().Interface()
	}
	if err := rows.Scan(dest...); err != nil {
		return row, fmt.Errorf("scan %s: %w", t.name, err)
	}
	return row, nil
}

// FindMany returns rows matching every condition. Without conditions it
// returns the whole table.
func (t *Table[T]) FindMany(ctx context.Context, conds ...Cond) ([]T, error) {
	start := time.Now()
	rows, err := t.findMany(ctx, conds)
	metrics.RecordDBQuery("find", t.name, time.Since(start), err)
	return rows, err
}

func (t *Table[T]) findMany(ctx context.Context, conds []Cond) ([]T, error) {
	if hasEmptyCond(conds) {
		return nil, nil
	}
	var all []T
	for _, batch := range splitConds(conds) {
		query, args := newQueryBuilder(t.selectSQL).addConds(batch).build("")
		rows, err := queryAndScan(ctx, t.db.conn, query, args, t.scan)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", t.name, err)
		}
		all = append(all, rows...)
	}
	return all, nil
}

// CreateMany inserts rows in one transaction. Either every row is
// inserted or none is.
func (t *Table[T]) CreateMany(ctx context.Context, rows []T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	start := time.Now()
	err := t.createMany(ctx, rows)
	metrics.RecordDBQuery("create", t.name, time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (t *Table[T]) createMany(ctx context.Context, rows []T) error {
	tx, err := t.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create %s: begin: %w", t.name, err)
	}

	stmt, err := tx.PrepareContext(ctx, t.insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create %s: prepare: %w", t.name, err)
	}

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, t.insertArgs(row)...); err != nil {
			closeQuietly(stmt)
			_ = tx.Rollback()
			return fmt.Errorf("create %s: row %d: %w", t.name, i, err)
		}
	}
	closeWithLog(stmt, "prepared statement")

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create %s: commit: %w", t.name, err)
	}
	return nil
}

// UpdateOne overwrites every non-key column of the row with the same key.
// Returns ErrNotFound when no such row exists.
func (t *Table[T]) UpdateOne(ctx context.Context, row T) error {
	if t.updateSQL == "" {
		return nil
	}
	start := time.Now()
	err := t.updateWithRetry(ctx, row)
	metrics.RecordDBQuery("update", t.name, time.Since(start), err)
	return err
}

func (t *Table[T]) updateWithRetry(ctx context.Context, row T) error {
	const maxRetries = 3
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := t.updateOne(ctx, row)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("update %s: %w", t.name, ctx.Err())
		}
		if !isTransactionConflict(err) {
			return err
		}

		backoff := time.Millisecond * time.Duration(1<<uint(attempt)) // 1ms, 2ms, 4ms
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("update %s: max retries exceeded: %w", t.name, lastErr)
}

func (t *Table[T]) updateOne(ctx context.Context, row T) error {
	res, err := t.db.conn.ExecContext(ctx, t.updateSQL, t.updateArgs(row)...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: rows affected: %w", t.name, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s: %w", t.name, ErrNotFound)
	}
	return nil
}

// DeleteMany deletes rows matching every condition and returns how many
// were removed. At least one condition is required.
func (t *Table[T]) DeleteMany(ctx context.Context, conds ...Cond) (int64, error) {
	if len(conds) == 0 {
		return 0, ErrUnconditionalDelete
	}
	if hasEmptyCond(conds) {
		return 0, nil
	}
	start := time.Now()
	n, err := t.deleteMany(ctx, conds)
	metrics.RecordDBQuery("delete", t.name, time.Since(start), err)
	return n, err
}

func (t *Table[T]) deleteMany(ctx context.Context, conds []Cond) (int64, error) {
	var total int64
	for _, batch := range splitConds(conds) {
		query, args := newQueryBuilder("DELETE FROM " + quoteIdent(t.name)).addConds(batch).build("")
		res, err := t.db.conn.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("delete %s: %w", t.name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("delete %s: rows affected: %w", t.name, err)
		}
		total += n
	}
	return total, nil
}

// IDs returns every value of the table's "id" column.
func (t *Table[T]) IDs(ctx context.Context) ([]int64, error) {
	start := time.Now()
	ids, err := queryAndScan(ctx, t.db.conn, fmt.Sprintf("SELECT %s FROM %s", quoteIdent("id"), quoteIdent(t.name)), nil,
		func(rows *sql.Rows) (int64, error) {
			var id int64
			err := rows.Scan(&id)
			return id, err
		})
	metrics.RecordDBQuery("ids", t.name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("ids %s: %w", t.name, err)
	}
	return ids, nil
}
