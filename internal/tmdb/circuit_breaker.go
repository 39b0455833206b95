// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/metrics"
)

// CircuitBreakerClient wraps Client with a circuit breaker so a TMDB outage
// fails fast instead of stalling every fetch of a chunk on retries.
//
// 404 responses and cancellations count as successes: a title that no
// longer exists says nothing about TMDB's health.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

var _ API = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient creates a TMDB client with circuit breaker.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(cfg *config.TMDBConfig) *CircuitBreakerClient {
	return wrapClient(NewClient(cfg), "tmdb-api")
}

func wrapClient(client *Client, cbName string) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: isSuccessful,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// SetResponseCache forwards to the wrapped client.
func (cbc *CircuitBreakerClient) SetResponseCache(rc ResponseCache) {
	cbc.client.SetResponseCache(rc)
}

func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// execute wraps a TMDB call with circuit breaker protection
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	switch {
	case err == nil || isSuccessful(err):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

// castResult type-casts the circuit breaker result
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to float64 for Prometheus metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// State returns the breaker's current state as a string.
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

func (cbc *CircuitBreakerClient) Movie(ctx context.Context, id int64) (*Movie, error) {
	return castResult[*Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.Movie(ctx, id)
	}))
}

func (cbc *CircuitBreakerClient) Show(ctx context.Context, id int64) (*Show, error) {
	return castResult[*Show](cbc.execute(func() (interface{}, error) {
		return cbc.client.Show(ctx, id)
	}))
}

func (cbc *CircuitBreakerClient) SeasonCredits(ctx context.Context, showID int64, seasonNumber int) (*Credits, error) {
	return castResult[*Credits](cbc.execute(func() (interface{}, error) {
		return cbc.client.SeasonCredits(ctx, showID, seasonNumber)
	}))
}

func (cbc *CircuitBreakerClient) Person(ctx context.Context, id int64) (*Person, error) {
	return castResult[*Person](cbc.execute(func() (interface{}, error) {
		return cbc.client.Person(ctx, id)
	}))
}

func (cbc *CircuitBreakerClient) Changes(ctx context.Context, resource Resource, start, end time.Time, page int) (*IDPage, error) {
	return castResult[*IDPage](cbc.execute(func() (interface{}, error) {
		return cbc.client.Changes(ctx, resource, start, end, page)
	}))
}

func (cbc *CircuitBreakerClient) Discover(ctx context.Context, resource Resource, query DiscoverQuery, page int) (*IDPage, error) {
	return castResult[*IDPage](cbc.execute(func() (interface{}, error) {
		return cbc.client.Discover(ctx, resource, query, page)
	}))
}

func (cbc *CircuitBreakerClient) Genres(ctx context.Context, resource Resource) ([]Genre, error) {
	return castResult[[]Genre](cbc.execute(func() (interface{}, error) {
		return cbc.client.Genres(ctx, resource)
	}))
}

func (cbc *CircuitBreakerClient) Languages(ctx context.Context) ([]Language, error) {
	return castResult[[]Language](cbc.execute(func() (interface{}, error) {
		return cbc.client.Languages(ctx)
	}))
}

func (cbc *CircuitBreakerClient) Providers(ctx context.Context, resource Resource, region string) ([]Provider, error) {
	return castResult[[]Provider](cbc.execute(func() (interface{}, error) {
		return cbc.client.Providers(ctx, resource, region)
	}))
}
