// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/loader"
	"github.com/tomtom215/reelsync/internal/models"
	syncmgr "github.com/tomtom215/reelsync/internal/sync"
	"github.com/tomtom215/reelsync/internal/validation"
)

type mockDatabase struct {
	pingFunc         func(ctx context.Context) error
	listSyncRunsFunc func(ctx context.Context, limit int) ([]models.SyncRun, error)
}

func (m *mockDatabase) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockDatabase) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if m.listSyncRunsFunc != nil {
		return m.listSyncRunsFunc(ctx, limit)
	}
	return nil, nil
}

type mockSync struct {
	status      syncmgr.Status
	triggerFunc func(mode loader.Mode) error
}

func (m *mockSync) Status() syncmgr.Status { return m.status }

func (m *mockSync) TriggerSync(mode loader.Mode) error {
	if m.triggerFunc != nil {
		return m.triggerFunc(mode)
	}
	return nil
}

func newTestServer(db *mockDatabase, sync *mockSync, cfg config.ServerConfig) http.Handler {
	return NewRouter(NewHandler(db, sync), cfg).Setup()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.RemoteAddr = "192.0.2.10:51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp APIResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, resp APIResponse, want string) {
	t.Helper()
	if resp.Success || resp.Error == nil {
		t.Fatalf("expected error envelope, got %+v", resp)
	}
	if resp.Error.Code != want {
		t.Errorf("error code = %q, want %q", resp.Error.Code, want)
	}
}

func TestHealth(t *testing.T) {
	sync := &mockSync{status: syncmgr.Status{SchedulerRunning: true}}

	t.Run("healthy", func(t *testing.T) {
		rec, resp := do(t, newTestServer(&mockDatabase{}, sync, config.ServerConfig{}), http.MethodGet, "/api/v1/health", "")
		checkStatus(t, rec, http.StatusOK)
		data := resp.Data.(map[string]interface{})
		if data["status"] != "healthy" || data["scheduler_running"] != true {
			t.Errorf("data = %v", data)
		}
		if resp.Meta.RequestID == "" || resp.Meta.RequestID != rec.Header().Get("X-Request-ID") {
			t.Errorf("meta request id %q does not match header %q", resp.Meta.RequestID, rec.Header().Get("X-Request-ID"))
		}
	})

	t.Run("database down", func(t *testing.T) {
		db := &mockDatabase{pingFunc: func(context.Context) error { return errors.New("connection refused") }}
		rec, resp := do(t, newTestServer(db, sync, config.ServerConfig{}), http.MethodGet, "/api/v1/health", "")
		checkStatus(t, rec, http.StatusServiceUnavailable)
		data := resp.Data.(map[string]interface{})
		if data["status"] != "degraded" || data["database_connected"] != false {
			t.Errorf("data = %v", data)
		}
	})
}

func TestSyncStatus(t *testing.T) {
	sync := &mockSync{status: syncmgr.Status{
		SchedulerRunning: true,
		Interval:         "6h0m0s",
		LastRun:          &syncmgr.RunStatus{ID: "run-1", Mode: "full", Writes: 12},
	}}
	rec, resp := do(t, newTestServer(&mockDatabase{}, sync, config.ServerConfig{}), http.MethodGet, "/api/v1/sync/status", "")
	checkStatus(t, rec, http.StatusOK)

	data := resp.Data.(map[string]interface{})
	lastRun, ok := data["last_run"].(map[string]interface{})
	if !ok || lastRun["id"] != "run-1" {
		t.Errorf("last_run = %v", data["last_run"])
	}
}

func TestSyncRuns(t *testing.T) {
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	summary := `{"id":"run-2","mode":"incremental"}`
	broken := `{not json`
	var gotLimit int
	db := &mockDatabase{listSyncRunsFunc: func(_ context.Context, limit int) ([]models.SyncRun, error) {
		gotLimit = limit
		return []models.SyncRun{
			{ID: "run-3", Mode: "full", StartedAt: ended},
			{ID: "run-2", Mode: "incremental", StartedAt: ended.Add(-time.Hour), EndedAt: &ended, Summary: &summary},
			{ID: "run-1", Mode: "incremental", StartedAt: ended.Add(-2 * time.Hour), EndedAt: &ended, Summary: &broken},
		}, nil
	}}
	h := newTestServer(db, &mockSync{}, config.ServerConfig{})

	t.Run("default limit", func(t *testing.T) {
		rec, resp := do(t, h, http.MethodGet, "/api/v1/sync/runs", "")
		checkStatus(t, rec, http.StatusOK)
		if gotLimit != defaultRunsLimit {
			t.Errorf("limit = %d, want %d", gotLimit, defaultRunsLimit)
		}
		runs := resp.Data.([]interface{})
		if len(runs) != 3 {
			t.Fatalf("got %d runs, want 3", len(runs))
		}
		first := runs[0].(map[string]interface{})
		if first["completed"] != false {
			t.Errorf("run-3 completed = %v, want false", first["completed"])
		}
		second := runs[1].(map[string]interface{})
		if s, ok := second["summary"].(map[string]interface{}); !ok || s["id"] != "run-2" {
			t.Errorf("run-2 summary = %v", second["summary"])
		}
		if _, ok := runs[2].(map[string]interface{})["summary"]; ok {
			t.Error("invalid stored summary must be omitted")
		}
	})

	t.Run("explicit limit", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodGet, "/api/v1/sync/runs?limit=5", "")
		checkStatus(t, rec, http.StatusOK)
		if gotLimit != 5 {
			t.Errorf("limit = %d, want 5", gotLimit)
		}
	})

	for _, raw := range []string{"0", "101", "ten"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			rec, resp := do(t, h, http.MethodGet, "/api/v1/sync/runs?limit="+raw, "")
			checkStatus(t, rec, http.StatusBadRequest)
			checkErrorCode(t, resp, validation.ErrorCode)
		})
	}

	t.Run("database error", func(t *testing.T) {
		failing := &mockDatabase{listSyncRunsFunc: func(context.Context, int) ([]models.SyncRun, error) {
			return nil, errors.New("disk I/O error")
		}}
		rec, resp := do(t, newTestServer(failing, &mockSync{}, config.ServerConfig{}), http.MethodGet, "/api/v1/sync/runs", "")
		checkStatus(t, rec, http.StatusInternalServerError)
		checkErrorCode(t, resp, ErrCodeDatabaseError)
		if strings.Contains(resp.Error.Message, "disk") {
			t.Error("internal error detail leaked to client")
		}
	})
}

func TestTriggerSync(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		triggerErr error
		wantStatus int
		wantCode   string
	}{
		{"full queued", `{"mode":"full"}`, nil, http.StatusAccepted, ""},
		{"incremental queued", `{"mode":"incremental"}`, nil, http.StatusAccepted, ""},
		{"missing mode", `{}`, nil, http.StatusBadRequest, validation.ErrorCode},
		{"unknown mode", `{"mode":"partial"}`, nil, http.StatusBadRequest, validation.ErrorCode},
		{"unknown field", `{"mode":"full","force":true}`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"malformed", `{"mode":`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"run in progress", `{"mode":"full"}`, loader.ErrRunInProgress, http.StatusConflict, ErrCodeConflict},
		{"already queued", `{"mode":"full"}`, syncmgr.ErrTriggerPending, http.StatusConflict, ErrCodeConflict},
		{"scheduler stopped", `{"mode":"full"}`, syncmgr.ErrNotRunning, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"unexpected", `{"mode":"full"}`, errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var triggered loader.Mode
			sync := &mockSync{triggerFunc: func(mode loader.Mode) error {
				triggered = mode
				return tt.triggerErr
			}}
			rec, resp := do(t, newTestServer(&mockDatabase{}, sync, config.ServerConfig{}), http.MethodPost, "/api/v1/sync", tt.body)
			checkStatus(t, rec, tt.wantStatus)

			if tt.wantCode != "" {
				checkErrorCode(t, resp, tt.wantCode)
				return
			}
			data := resp.Data.(map[string]interface{})
			if data["queued"] != true || string(triggered) != data["mode"] {
				t.Errorf("data = %v, triggered %q", data, triggered)
			}
		})
	}
}
