// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// sweepInterval is how often expired entries are dropped in the background.
const sweepInterval = 5 * time.Minute

type entry struct {
	value   interface{}
	expires time.Time
}

// Cache is a concurrency-safe map whose entries expire after a TTL.
// The loader stores discoverable id sets in it between runs.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	lastSweep atomic.Int64 // unix nanos

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int
	LastSweep time.Time
}

// New returns a cache with the default ttl and starts the background
// sweep. A non-positive ttl makes every entry expire on write.
func New(ttl time.Duration) *Cache {
	c := newCache(ttl, time.Now)
	go c.sweepLoop()
	return c
}

func newCache(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Get returns the live value under key.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	expired := ok && !c.now().Before(e.expires)
	if expired {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	switch {
	case !ok:
		c.misses.Add(1)
		return nil, false
	case expired:
		c.misses.Add(1)
		c.evictions.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key with the cache ttl.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if ok {
		c.evictions.Add(1)
	}
}

// Clear drops every entry. Full runs call it before discovery so the
// discoverable sets are rebuilt from scratch.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	c.evictions.Add(int64(n))
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background sweep. The cache stays usable.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) Stats() Stats {
	st := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Keys:      c.Len(),
	}
	if ns := c.lastSweep.Load(); ns != 0 {
		st.LastSweep = time.Unix(0, ns)
	}
	return st
}

// HitRate is hits over lookups as a percentage, 0 before any lookup.
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses) * 100
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) sweep() {
	now := c.now()
	var dropped int64

	c.mu.Lock()
	for key, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, key)
			dropped++
		}
	}
	c.mu.Unlock()

	c.evictions.Add(dropped)
	c.lastSweep.Store(now.UnixNano())
}
