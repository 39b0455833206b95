// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/reelsync/internal/config"
)

func TestRouter_TriggerRateLimit(t *testing.T) {
	h := newTestServer(&mockDatabase{}, &mockSync{}, config.ServerConfig{TriggerRateLimit: 2})

	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodPost, "/api/v1/sync", `{"mode":"incremental"}`)
		checkStatus(t, rec, http.StatusAccepted)
	}
	rec, resp := do(t, h, http.MethodPost, "/api/v1/sync", `{"mode":"incremental"}`)
	checkStatus(t, rec, http.StatusTooManyRequests)
	checkErrorCode(t, resp, ErrCodeTooManyRequests)

	// reads are not limited
	rec, _ = do(t, h, http.MethodGet, "/api/v1/sync/status", "")
	checkStatus(t, rec, http.StatusOK)
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	h := newTestServer(&mockDatabase{}, &mockSync{}, config.ServerConfig{})

	rec, resp := do(t, h, http.MethodGet, "/api/v1/movies", "")
	checkStatus(t, rec, http.StatusNotFound)
	checkErrorCode(t, resp, ErrCodeNotFound)

	rec, resp = do(t, h, http.MethodDelete, "/api/v1/sync/runs", "")
	checkStatus(t, rec, http.StatusMethodNotAllowed)
	checkErrorCode(t, resp, ErrCodeMethodNotAllowed)
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestServer(&mockDatabase{}, &mockSync{}, config.ServerConfig{})
	do(t, h, http.MethodGet, "/api/v1/health", "")

	rec, _ := do(t, h, http.MethodGet, "/metrics", "")
	checkStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "reelsync_api_requests_total") {
		t.Error("metrics output missing reelsync_api_requests_total")
	}
}

func TestRouter_CORS(t *testing.T) {
	h := newTestServer(&mockDatabase{}, &mockSync{}, config.ServerConfig{CORSOrigins: []string{"https://admin.example.com"}})

	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/sync/status", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(h, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodOptions, "/api/v1/sync/status", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = serve(h, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q, want empty", got)
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8080, Timeout: 30 * time.Second}, http.NotFoundHandler())
	if srv.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", srv.Addr)
	}
	if srv.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v", srv.ReadTimeout)
	}
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
