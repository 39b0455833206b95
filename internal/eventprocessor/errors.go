// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package eventprocessor

import "errors"

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrNotStarted is returned when publishing before Components.Start.
var ErrNotStarted = errors.New("event components not started")

// ErrInvalidEvent is returned when an event fails validation.
var ErrInvalidEvent = errors.New("invalid event")

// ErrCircuitOpen is returned when the publish circuit breaker rejects a call.
var ErrCircuitOpen = errors.New("publish circuit breaker open")
