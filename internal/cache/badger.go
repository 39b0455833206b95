// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/metrics"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// ErrStoreClosed is returned by Set after Close.
var ErrStoreClosed = errors.New("cache: store closed")

const responsePrefix = "tmdb:"

// BadgerConfig configures BadgerStore.
type BadgerConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// TTL is the lifetime of a cached response. Zero keeps entries forever.
	TTL time.Duration

	// InMemory keeps the store in RAM. Used by tests.
	InMemory bool
}

// BadgerStore is a persistent TMDB response cache backed by BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration

	mu     sync.RWMutex
	closed bool
}

var _ tmdb.ResponseCache = (*BadgerStore)(nil)

// OpenBadgerStore opens (or creates) the store.
func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Compression = options.Snappy
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("ttl", cfg.TTL).
		Msg("[CACHE] Response cache opened")

	return &BadgerStore{db: db, ttl: cfg.TTL}, nil
}

// Get returns the cached body for key.
func (s *BadgerStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false
	}

	var body []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(responsePrefix + key))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case err == nil:
		metrics.TMDBCacheResults.WithLabelValues("hit").Inc()
		return body, true
	case errors.Is(err, badger.ErrKeyNotFound):
	default:
		logging.Warn().Err(err).Str("key", key).Msg("[CACHE] Response cache read failed")
	}
	metrics.TMDBCacheResults.WithLabelValues("miss").Inc()
	return nil, false
}

// Set stores body under key with the configured TTL.
func (s *BadgerStore) Set(key string, body []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(responsePrefix+key), body)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("write response cache: %w", err)
	}
	return nil
}

// Purge drops every cached response.
func (s *BadgerStore) Purge() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.DropPrefix([]byte(responsePrefix))
}

// Close closes the underlying database. Further calls are no-ops.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// RunGC rewrites value log files until no file has more than
// discardRatio of stale data.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("value log gc: %w", err)
		}
	}
}
