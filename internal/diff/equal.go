// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package diff decides what a reconciliation has to write.
//
// Equal compares a freshly parsed remote row with its stored counterpart
// while ignoring fields that churn without meaning, and Compute partitions
// a remote batch into create, update, unchanged and (optionally) delete
// sets against the stored rows.
package diff

import (
	"reflect"
	"strings"
	"sync"
	"time"
)

// VoteCountTolerance is the relative vote_count change, measured against
// the smaller of the two values, below which vote counts are considered equal.
const VoteCountTolerance = 0.10

const (
	columnPopularity = "popularity"
	columnCount      = "count"
	columnVoteCount  = "vote_count"
)

type field struct {
	index  int
	column string
}

var (
	fieldCache sync.Map // reflect.Type -> []field
	timeType   = reflect.TypeOf(time.Time{})
)

// Equal reports whether remote and local represent the same stored state.
//
// Fields are identified by their `db` tag. popularity and count are never
// compared, vote_count is compared with VoteCountEqual, everything else
// must match exactly. A nil pointer only equals another nil pointer;
// callers normalize optional fields on both sides before comparing.
func Equal[T any](remote, local T) bool {
	rv := reflect.ValueOf(remote)
	lv := reflect.ValueOf(local)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() || lv.IsNil() {
			return rv.IsNil() == lv.IsNil()
		}
		rv, lv = rv.Elem(), lv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.DeepEqual(remote, local)
	}

	for _, f := range fieldsOf(rv.Type()) {
		a, b := rv.Field(f.index), lv.Field(f.index)
		switch f.column {
		case columnPopularity, columnCount:
			continue
		case columnVoteCount:
			if !voteCountField(a, b) {
				return false
			}
		default:
			if !valuesEqual(a, b) {
				return false
			}
		}
	}
	return true
}

// VoteCountEqual applies the vote_count tolerance. 0 and 0 are equal;
// zero against any nonzero value is a difference.
func VoteCountEqual(remote, local int64) bool {
	if remote == local {
		return true
	}
	smaller := min(remote, local)
	if smaller <= 0 {
		return false
	}
	delta := remote - local
	if delta < 0 {
		delta = -delta
	}
	return float64(delta)/float64(smaller) <= VoteCountTolerance
}

func voteCountField(a, b reflect.Value) bool {
	if a.Kind() == reflect.Pointer {
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		a, b = a.Elem(), b.Elem()
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return VoteCountEqual(a.Int(), b.Int())
	default:
		return valuesEqual(a, b)
	}
}

func valuesEqual(a, b reflect.Value) bool {
	if a.Kind() == reflect.Pointer {
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return valuesEqual(a.Elem(), b.Elem())
	}
	if a.Type() == timeType {
		return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func fieldsOf(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}
	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		column, _, _ := strings.Cut(sf.Tag.Get("db"), ",")
		if column == "-" {
			continue
		}
		if column == "" {
			column = strings.ToLower(sf.Name)
		}
		fields = append(fields, field{index: i, column: column})
	}
	fieldCache.Store(t, fields)
	return fields
}
