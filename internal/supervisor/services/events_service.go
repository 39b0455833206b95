// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package services

import (
	"context"
	"fmt"
	"time"
)

// EventsRunner is implemented by eventprocessor.Components.
type EventsRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventsService runs the event publishing stack under supervision.
type EventsService struct {
	components      EventsRunner
	shutdownTimeout time.Duration
	name            string
}

// NewEventsService wraps components. A non-positive shutdown timeout
// defaults to 10s.
func NewEventsService(components EventsRunner, shutdownTimeout time.Duration) *EventsService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventsService{
		components:      components,
		shutdownTimeout: shutdownTimeout,
		name:            "event-publisher",
	}
}

// Serve implements suture.Service.
func (s *EventsService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("event components start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.components.Shutdown(shutdownCtx)

	return ctx.Err()
}

func (s *EventsService) String() string {
	return s.name
}
