// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelsync/internal/loader"
	"github.com/tomtom215/reelsync/internal/models"
	syncmgr "github.com/tomtom215/reelsync/internal/sync"
	"github.com/tomtom215/reelsync/internal/validation"
)

const (
	defaultRunsLimit = 20
	maxBodyBytes     = 1 << 10
	healthTimeout    = 3 * time.Second
)

// Database is the slice of the store the API reads.
type Database interface {
	Ping(ctx context.Context) error
	ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
}

// SyncController is implemented by *sync.Manager.
type SyncController interface {
	Status() syncmgr.Status
	TriggerSync(mode loader.Mode) error
}

type Handler struct {
	db        Database
	sync      SyncController
	startTime time.Time
}

func NewHandler(db Database, sync SyncController) *Handler {
	return &Handler{db: db, sync: sync, startTime: time.Now()}
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	SchedulerRunning  bool    `json:"scheduler_running"`
	SyncInProgress    bool    `json:"sync_in_progress"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health answers 200 when the database is reachable and 503 otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	health := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: h.db.Ping(ctx) == nil,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	st := h.sync.Status()
	health.SchedulerRunning = st.SchedulerRunning
	health.SyncInProgress = st.SyncInProgress

	status := http.StatusOK
	if !health.DatabaseConnected {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	respondData(w, r, status, health)
}

func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.sync.Status())
}

// SyncRunView is one entry of GET /api/v1/sync/runs. Summary is the stored
// JSON run summary, passed through undecoded.
type SyncRunView struct {
	ID        string          `json:"id"`
	Mode      string          `json:"mode"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Completed bool            `json:"completed"`
	Summary   json.RawMessage `json:"summary,omitempty"`
}

type runsQuery struct {
	Limit int `json:"limit" validate:"min=1,max=100"`
}

func (h *Handler) SyncRuns(w http.ResponseWriter, r *http.Request) {
	q := runsQuery{Limit: defaultRunsLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, validation.ErrorCode, "limit must be an integer", nil, nil)
			return
		}
		q.Limit = n
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	runs, err := h.db.ListSyncRuns(r.Context(), q.Limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to list sync runs", nil, err)
		return
	}

	views := make([]SyncRunView, len(runs))
	for i, run := range runs {
		views[i] = SyncRunView{
			ID:        run.ID,
			Mode:      run.Mode,
			StartedAt: run.StartedAt,
			EndedAt:   run.EndedAt,
			Completed: run.EndedAt != nil,
		}
		if run.Summary != nil && json.Valid([]byte(*run.Summary)) {
			views[i].Summary = json.RawMessage(*run.Summary)
		}
	}
	respondData(w, r, http.StatusOK, views)
}

// TriggerRequest is the body of POST /api/v1/sync.
type TriggerRequest struct {
	Mode string `json:"mode" validate:"required,oneof=full incremental"`
}

// TriggerResponse acknowledges a queued run.
type TriggerResponse struct {
	Mode   string `json:"mode"`
	Queued bool   `json:"queued"`
}

func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var req TriggerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Request body must be a JSON object with a mode field", nil, nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	mode := loader.Mode(req.Mode)
	err := h.sync.TriggerSync(mode)
	switch {
	case err == nil:
		respondData(w, r, http.StatusAccepted, TriggerResponse{Mode: req.Mode, Queued: true})
	case errors.Is(err, loader.ErrRunInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "A sync run is already in progress", nil, nil)
	case errors.Is(err, syncmgr.ErrTriggerPending):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "A manual sync is already queued", nil, nil)
	case errors.Is(err, syncmgr.ErrNotRunning):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Scheduler is not running", nil, nil)
	case errors.Is(err, loader.ErrUnknownMode):
		respondError(w, r, http.StatusBadRequest, validation.ErrorCode, err.Error(), nil, nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to queue sync", nil, err)
	}
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil, nil)
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil, nil)
}

func (h *Handler) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Too many sync triggers, retry later", nil, nil)
}
