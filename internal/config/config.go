// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package config loads Reelsync configuration.
//
// Configuration is layered with Koanf v2:
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	client := tmdb.NewClient(&cfg.TMDB)
package config

import "time"

// Config holds all application configuration.
type Config struct {
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Database DatabaseConfig `koanf:"database"`
	Sync     SyncConfig     `koanf:"sync"`
	Cache    CacheConfig    `koanf:"cache"`
	NATS     NATSConfig     `koanf:"nats"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// TMDBConfig configures the upstream metadata API client.
type TMDBConfig struct {
	BaseURL     string `koanf:"base_url"`
	AccessToken string `koanf:"access_token"` // v4 read access token (Bearer)
	APIKey      string `koanf:"api_key"`      // v3 key, used when no access token is set
	Region      string `koanf:"region"`       // watch provider / certification region

	// ExcludedProviders are provider ids dropped from provider links.
	// 78 (CBS) shows up in US results for titles it does not carry.
	ExcludedProviders []int `koanf:"excluded_providers"`

	Timeout        time.Duration `koanf:"timeout"`
	RequestsPerSec float64       `koanf:"requests_per_second"`
	Burst          int           `koanf:"burst"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
}

// DatabaseConfig selects and configures the relational store.
type DatabaseConfig struct {
	Driver    string `koanf:"driver"` // duckdb or postgres
	Path      string `koanf:"path"`   // DuckDB file path, ":memory:" for tests
	DSN       string `koanf:"dsn"`    // Postgres connection string
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
	MaxConns  int    `koanf:"max_conns"`
}

// SyncConfig holds reconciliation settings.
type SyncConfig struct {
	Interval          time.Duration `koanf:"interval"`      // incremental run cadence
	FullInterval      time.Duration `koanf:"full_interval"` // full run when the last one is older than this
	Lookback          time.Duration `koanf:"lookback"`      // changes feed window
	RunOnStartup      bool          `koanf:"run_on_startup"`
	ChunkSize         int           `koanf:"chunk_size"`
	FetchConcurrency  int           `koanf:"fetch_concurrency"`
	UpdateConcurrency int           `koanf:"update_concurrency"`
	MinVoteCount      int           `koanf:"min_vote_count"`
	EpochYear         int           `koanf:"epoch_year"`
}

// CacheConfig configures the discovery cache and the on-disk response cache.
type CacheConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	BadgerEnabled bool          `koanf:"badger_enabled"`
	BadgerPath    string        `koanf:"badger_path"`
	ResponseTTL   time.Duration `koanf:"response_ttl"`
}

// NATSConfig configures run event publishing.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	Topic          string `koanf:"topic"`
}

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	Host             string        `koanf:"host"`
	Port             int           `koanf:"port"`
	Timeout          time.Duration `koanf:"timeout"`
	CORSOrigins      []string      `koanf:"cors_origins"`
	TriggerRateLimit int           `koanf:"trigger_rate_limit"` // manual sync triggers per minute per IP
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional file, and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
