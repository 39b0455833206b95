// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// maxInValues caps the values of one IN list. Larger conditions are split
// into several statements; Postgres rejects more than 65535 parameters.
const maxInValues = 1000

// queryBuilder constructs WHERE clauses with $n placeholders
type queryBuilder struct {
	baseQuery string
	args      []interface{}
	filters   []string
}

func newQueryBuilder(baseQuery string) *queryBuilder {
	return &queryBuilder{
		baseQuery: baseQuery,
		args:      make([]interface{}, 0, 8),
		filters:   make([]string, 0, 4),
	}
}

// placeholder appends arg and returns its $n marker
func (qb *queryBuilder) placeholder(arg interface{}) string {
	qb.args = append(qb.args, arg)
	return fmt.Sprintf("$%d", len(qb.args))
}

// addInFilter adds "column IN (...)"
func (qb *queryBuilder) addInFilter(column string, values []interface{}) *queryBuilder {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = qb.placeholder(v)
	}
	qb.filters = append(qb.filters, fmt.Sprintf("%s IN (%s)", quoteIdent(column), strings.Join(placeholders, ", ")))
	return qb
}

// addConds adds one IN filter per condition
func (qb *queryBuilder) addConds(conds []Cond) *queryBuilder {
	for _, c := range conds {
		qb.addInFilter(c.Column, c.Values)
	}
	return qb
}

// addFilter adds a custom filter condition. Use placeholder for its args.
func (qb *queryBuilder) addFilter(condition string) *queryBuilder {
	qb.filters = append(qb.filters, condition)
	return qb
}

// build constructs the final query and returns it with args
func (qb *queryBuilder) build(suffix string) (string, []interface{}) {
	query := qb.baseQuery
	if len(qb.filters) > 0 {
		query += " WHERE " + strings.Join(qb.filters, " AND ")
	}
	if suffix != "" {
		query += " " + suffix
	}
	return query, qb.args
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// hasEmptyCond reports whether any condition matches nothing
func hasEmptyCond(conds []Cond) bool {
	for _, c := range conds {
		if len(c.Values) == 0 {
			return true
		}
	}
	return false
}

// splitConds splits the first condition into batches of maxInValues
func splitConds(conds []Cond) [][]Cond {
	if len(conds) == 0 || len(conds[0].Values) <= maxInValues {
		return [][]Cond{conds}
	}
	first := conds[0]
	var batches [][]Cond
	for start := 0; start < len(first.Values); start += maxInValues {
		end := min(start+maxInValues, len(first.Values))
		batch := make([]Cond, len(conds))
		copy(batch, conds)
		batch[0] = Cond{Column: first.Column, Values: first.Values[start:end]}
		batches = append(batches, batch)
	}
	return batches
}

// scanFunc is a function that scans a single row into a result type
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows using the provided scan function
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
