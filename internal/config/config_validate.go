// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.AccessToken == "" && c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_ACCESS_TOKEN or TMDB_API_KEY is required")
	}
	if err := validateBaseURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if len(c.TMDB.Region) != 2 {
		return fmt.Errorf("TMDB_REGION must be a two-letter country code, got: %q", c.TMDB.Region)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.TMDB.RequestsPerSec <= 0 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND must be positive")
	}
	if c.TMDB.Burst < 1 {
		return fmt.Errorf("TMDB_BURST must be at least 1")
	}
	if c.TMDB.MaxRetries < 0 {
		return fmt.Errorf("TMDB_MAX_RETRIES must not be negative")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_DRIVER=duckdb")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be duckdb or postgres, got: %q", c.Database.Driver)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1")
	}
	return nil
}

func (c *Config) validateSync() error {
	s := c.Sync
	if s.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive")
	}
	if s.FullInterval < s.Interval {
		return fmt.Errorf("SYNC_FULL_INTERVAL (%s) must not be shorter than SYNC_INTERVAL (%s)", s.FullInterval, s.Interval)
	}
	if s.Lookback <= 0 {
		return fmt.Errorf("SYNC_LOOKBACK must be positive")
	}
	if s.ChunkSize < 1 || s.ChunkSize > 5000 {
		return fmt.Errorf("SYNC_CHUNK_SIZE must be between 1 and 5000, got: %d", s.ChunkSize)
	}
	if s.FetchConcurrency < 1 || s.FetchConcurrency > 64 {
		return fmt.Errorf("SYNC_FETCH_CONCURRENCY must be between 1 and 64, got: %d", s.FetchConcurrency)
	}
	if s.UpdateConcurrency < 1 || s.UpdateConcurrency > 64 {
		return fmt.Errorf("SYNC_UPDATE_CONCURRENCY must be between 1 and 64, got: %d", s.UpdateConcurrency)
	}
	if s.MinVoteCount < 0 {
		return fmt.Errorf("SYNC_MIN_VOTE_COUNT must not be negative")
	}
	if s.EpochYear < 1870 || s.EpochYear > 2100 {
		return fmt.Errorf("SYNC_EPOCH_YEAR out of range: %d", s.EpochYear)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.BadgerEnabled {
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("CACHE_BADGER_PATH is required when CACHE_BADGER_ENABLED=true")
		}
		if c.Cache.ResponseTTL <= 0 {
			return fmt.Errorf("CACHE_RESPONSE_TTL must be positive")
		}
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.Topic == "" {
		return fmt.Errorf("NATS_TOPIC is required when NATS_ENABLED=true")
	}
	if !c.NATS.EmbeddedServer && !strings.HasPrefix(c.NATS.URL, "nats://") {
		return fmt.Errorf("NATS_URL must start with nats://, got: %s", c.NATS.URL)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.TriggerRateLimit < 1 {
		return fmt.Errorf("TRIGGER_RATE_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL is invalid: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

// validateBaseURL accepts http(s) URLs with an optional API version path.
func validateBaseURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}
	return nil
}
