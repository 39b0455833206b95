// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/reelsync/internal/metrics"
)

func openTestStore(t *testing.T, ttl time.Duration) *BadgerStore {
	t.Helper()
	store, err := OpenBadgerStore(BadgerConfig{InMemory: true, TTL: ttl})
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBadgerStore_SetGet(t *testing.T) {
	store := openTestStore(t, time.Hour)
	key := "/genre/movie/list?language=en-US"

	hitsBefore := testutil.ToFloat64(metrics.TMDBCacheResults.WithLabelValues("hit"))
	missesBefore := testutil.ToFloat64(metrics.TMDBCacheResults.WithLabelValues("miss"))

	if _, ok := store.Get(key); ok {
		t.Fatal("empty store returned a hit")
	}

	body := []byte(`{"genres":[{"id":28,"name":"Action"}]}`)
	if err := store.Set(key, body); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := store.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(body) {
		t.Errorf("Get = %s, want %s", got, body)
	}

	if d := testutil.ToFloat64(metrics.TMDBCacheResults.WithLabelValues("hit")) - hitsBefore; d != 1 {
		t.Errorf("hit counter delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(metrics.TMDBCacheResults.WithLabelValues("miss")) - missesBefore; d != 1 {
		t.Errorf("miss counter delta = %v, want 1", d)
	}
}

func TestBadgerStore_TTL(t *testing.T) {
	store := openTestStore(t, time.Second)

	if err := store.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Badger TTLs have second granularity.
	time.Sleep(2100 * time.Millisecond)

	if _, ok := store.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestBadgerStore_Purge(t *testing.T) {
	store := openTestStore(t, 0)

	for _, k := range []string{"a", "b"} {
		if err := store.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := store.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, ok := store.Get("a"); ok {
		t.Error("expected purge to drop a")
	}
}

func TestBadgerStore_Closed(t *testing.T) {
	store, err := OpenBadgerStore(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := store.Set("k", nil); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Set after Close = %v, want ErrStoreClosed", err)
	}
	if _, ok := store.Get("k"); ok {
		t.Error("Get after Close returned a hit")
	}
}

func TestOpenBadgerStore_RequiresPath(t *testing.T) {
	if _, err := OpenBadgerStore(BadgerConfig{}); err == nil {
		t.Error("expected error without path")
	}
}

func TestBadgerStore_RunGC(t *testing.T) {
	store, err := OpenBadgerStore(BadgerConfig{Path: t.TempDir(), TTL: time.Hour})
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	for i := 0; i < 50; i++ {
		if err := store.Set("discover/movie", make([]byte, 1024)); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := store.RunGC(0.5); err != nil {
		t.Errorf("RunGC: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.RunGC(0.5); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("RunGC after Close = %v, want ErrStoreClosed", err)
	}
}
