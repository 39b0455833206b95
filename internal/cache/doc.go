// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
Package cache provides the two caches of the sync engine.

# In-memory TTL cache

Cache is a thread-safe map with per-entry expiration. The loader keeps the
discoverable id sets in it between incremental runs:

	c := cache.New(24 * time.Hour)
	defer c.Close()

	c.Set("discover:movie", ids)
	if v, ok := c.Get("discover:movie"); ok {
	    ids := v.([]int64)
	}

Expired entries are dropped lazily on Get and by a background sweep every
five minutes. Close stops the sweep.

# Persistent response cache

BadgerStore keeps raw TMDB response bodies on disk with a native BadgerDB
TTL. It implements tmdb.ResponseCache and is enabled with
cache.badger_enabled:

	store, err := cache.OpenBadgerStore(cache.BadgerConfig{Path: "/data/cache", TTL: 12 * time.Hour})
	if err != nil {
	    return err
	}
	defer store.Close()
	client.SetResponseCache(store)

Hits and misses are counted in reelsync_tmdb_response_cache_total.
*/
package cache
