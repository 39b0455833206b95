// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package diff

// Options controls Compute.
type Options struct {
	// DeleteOrphans fills Result.Delete with stored rows whose key is
	// absent from the remote batch. Off by default.
	DeleteOrphans bool
}

// Result is the partition of a remote batch against stored rows.
//
// Create, Update and Unchanged hold remote rows in remote order and
// together cover every distinct remote key. Delete holds stored rows.
type Result[T any] struct {
	Create    []T
	Update    []T
	Unchanged []T
	Delete    []T
}

// Writes is the number of rows the result would write.
func (r Result[T]) Writes() int {
	return len(r.Create) + len(r.Update) + len(r.Delete)
}

// Compute partitions remote against local using key for identity and
// Equal for change detection. When a key repeats in remote only its first
// occurrence is considered.
func Compute[T any, K comparable](remote, local []T, key func(T) K, opts Options) Result[T] {
	stored := make(map[K]T, len(local))
	for _, row := range local {
		stored[key(row)] = row
	}

	var result Result[T]
	seen := make(map[K]struct{}, len(remote))
	for _, row := range remote {
		k := key(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		existing, ok := stored[k]
		switch {
		case !ok:
			result.Create = append(result.Create, row)
		case Equal(row, existing):
			result.Unchanged = append(result.Unchanged, row)
		default:
			result.Update = append(result.Update, row)
		}
	}

	if opts.DeleteOrphans {
		for _, row := range local {
			if _, ok := seen[key(row)]; !ok {
				result.Delete = append(result.Delete, row)
			}
		}
	}
	return result
}
