// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package services

import (
	"context"
	"time"

	"github.com/tomtom215/reelsync/internal/logging"
)

// MaintenanceService calls task every interval until ctx ends. Task
// errors are logged and never stop the service.
type MaintenanceService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewMaintenanceService creates the service. A non-positive interval
// defaults to 10 minutes.
func NewMaintenanceService(name string, interval time.Duration, task func(ctx context.Context) error) *MaintenanceService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &MaintenanceService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.task(ctx); err != nil {
				logging.Warn().Err(err).Str("service", s.name).Msg("Maintenance task failed")
			}
		}
	}
}

func (s *MaintenanceService) String() string {
	return s.name
}
