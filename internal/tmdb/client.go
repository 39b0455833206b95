// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

/*
client.go - Core TMDB API Client

This file provides the Client struct and the HTTP communication layer for
TMDB's v3 REST API.

Client Features:
  - HTTP client with configurable timeout (60s by default)
  - Bearer (v4 read access token) or api_key authentication
  - Client-side token bucket limiter (golang.org/x/time/rate)
  - HTTP 429 and 5xx handling with exponential backoff and Retry-After
  - 404 mapped to ErrNotFound so callers can tell "gone" from "broken"
  - Optional persistent response cache for discover and reference lists

Resilience Mechanisms:
  - Retries: up to tmdb.max_retries attempts (1s, 2s, 4s, 8s, 16s)
  - Circuit Breaker: see circuit_breaker.go
  - Context: all methods accept context for cancellation

Related Files:
  - endpoints.go: typed endpoint methods
  - models.go: wire types
*/

//nolint:staticcheck // File documentation, not package doc
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/metrics"
)

var (
	// ErrNotFound is returned when TMDB answers 404 for a resource.
	ErrNotFound = errors.New("tmdb: resource not found")

	// ErrRateLimited is returned when 429 persists after all retries.
	ErrRateLimited = errors.New("tmdb: rate limit exceeded")

	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("tmdb: circuit breaker open")
)

// StatusError is a non-2xx, non-404 response that exhausted its retries
// or is not retryable.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: HTTP %d: %s", e.StatusCode, e.Body)
}

// maxErrorBodySize limits the response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads at most 64KB of r for error reporting
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// ResponseCache stores raw response bodies by request key.
// internal/cache.BadgerStore implements it.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// API is the set of TMDB operations the loader consumes.
//
// Client implements it for direct calls, CircuitBreakerClient for
// production use and tests provide mocks.
type API interface {
	Movie(ctx context.Context, id int64) (*Movie, error)
	Show(ctx context.Context, id int64) (*Show, error)
	SeasonCredits(ctx context.Context, showID int64, seasonNumber int) (*Credits, error)
	Person(ctx context.Context, id int64) (*Person, error)
	Changes(ctx context.Context, resource Resource, start, end time.Time, page int) (*IDPage, error)
	Discover(ctx context.Context, resource Resource, query DiscoverQuery, page int) (*IDPage, error)
	Genres(ctx context.Context, resource Resource) ([]Genre, error)
	Languages(ctx context.Context) ([]Language, error)
	Providers(ctx context.Context, resource Resource, region string) ([]Provider, error)
}

// Client talks to the TMDB HTTP API.
//
// Thread Safety: safe for concurrent use. The limiter is shared by all
// goroutines using the client.
type Client struct {
	baseURL        string
	accessToken    string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int           // retries for 429 and 5xx
	retryBaseDelay time.Duration // base delay for exponential backoff
	cache          ResponseCache
}

var _ API = (*Client)(nil)

// NewClient creates a TMDB client from cfg.
func NewClient(cfg *config.TMDBConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		apiKey:      cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// SetResponseCache enables caching of discover and reference list bodies.
func (c *Client) SetResponseCache(rc ResponseCache) {
	c.cache = rc
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// doRequestWithRetry performs a GET with limiter pacing and backoff on 429
// and 5xx. The returned response is never retryable.
func (c *Client) doRequestWithRetry(ctx context.Context, endpoint, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.accessToken)
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordTMDBRequest(endpoint, 0, time.Since(start))
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordTMDBRequest(endpoint, resp.StatusCode, time.Since(start))

		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("%w after %d retries (HTTP 429)", ErrRateLimited, c.maxRetries)
		} else {
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
		}
		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		logging.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("[TMDB] Retrying request")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// getJSON fetches path with params and decodes the body into result.
// When cacheable is set and a response cache is configured, bodies are
// served from and written to the cache.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, cacheable bool, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	key := path + "?" + params.Encode()

	if cacheable && c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			metrics.TMDBCacheResults.WithLabelValues("hit").Inc()
			return json.Unmarshal(body, result)
		}
		metrics.TMDBCacheResults.WithLabelValues("miss").Inc()
	}

	if c.accessToken == "" && c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	reqURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	resp, err := c.doRequestWithRetry(ctx, endpoint, reqURL)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("failed to fetch %s: %w", path, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	if cacheable && c.cache != nil {
		if err := c.cache.Set(key, body); err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("[TMDB] Failed to cache response")
		}
	}
	return nil
}
