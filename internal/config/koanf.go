// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelsync/config.yaml",
	"/etc/reelsync/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			Region:            "US",
			ExcludedProviders: []int{78},
			Timeout:           60 * time.Second,
			RequestsPerSec:    40,
			Burst:             20,
			MaxRetries:        5,
			RetryBaseDelay:    time.Second,
		},
		Database: DatabaseConfig{
			Driver:    "duckdb",
			Path:      "/data/reelsync.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = DuckDB default
			MaxConns:  16,
		},
		Sync: SyncConfig{
			Interval:          6 * time.Hour,
			FullInterval:      30 * 24 * time.Hour,
			Lookback:          48 * time.Hour,
			RunOnStartup:      true,
			ChunkSize:         500,
			FetchConcurrency:  48,
			UpdateConcurrency: 32,
			MinVoteCount:      64,
			EpochYear:         1874,
		},
		Cache: CacheConfig{
			TTL:           24 * time.Hour,
			BadgerEnabled: false,
			BadgerPath:    "/data/cache",
			ResponseTTL:   12 * time.Hour,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			StoreDir:       "/data/nats",
			Topic:          "sync.run.completed",
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8642,
			Timeout:          30 * time.Second,
			CORSOrigins:      []string{"*"},
			TriggerRateLimit: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > File > Defaults
// and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"tmdb.excluded_providers",
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"tmdb_base_url":            "tmdb.base_url",
	"tmdb_access_token":        "tmdb.access_token",
	"tmdb_api_key":             "tmdb.api_key",
	"tmdb_region":              "tmdb.region",
	"tmdb_excluded_providers":  "tmdb.excluded_providers",
	"tmdb_timeout":             "tmdb.timeout",
	"tmdb_requests_per_second": "tmdb.requests_per_second",
	"tmdb_burst":               "tmdb.burst",
	"tmdb_max_retries":         "tmdb.max_retries",
	"tmdb_retry_base_delay":    "tmdb.retry_base_delay",

	"database_driver":    "database.driver",
	"duckdb_path":        "database.path",
	"duckdb_max_memory":  "database.max_memory",
	"duckdb_threads":     "database.threads",
	"database_url":       "database.dsn",
	"database_max_conns": "database.max_conns",

	"sync_interval":           "sync.interval",
	"sync_full_interval":      "sync.full_interval",
	"sync_lookback":           "sync.lookback",
	"sync_run_on_startup":     "sync.run_on_startup",
	"sync_chunk_size":         "sync.chunk_size",
	"sync_fetch_concurrency":  "sync.fetch_concurrency",
	"sync_update_concurrency": "sync.update_concurrency",
	"sync_min_vote_count":     "sync.min_vote_count",
	"sync_epoch_year":         "sync.epoch_year",

	"cache_ttl":            "cache.ttl",
	"cache_badger_enabled": "cache.badger_enabled",
	"cache_badger_path":    "cache.badger_path",
	"cache_response_ttl":   "cache.response_ttl",

	"nats_enabled":   "nats.enabled",
	"nats_url":       "nats.url",
	"nats_embedded":  "nats.embedded_server",
	"nats_store_dir": "nats.store_dir",
	"nats_topic":     "nats.topic",

	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_timeout":       "server.timeout",
	"cors_origins":       "server.cors_origins",
	"trigger_rate_limit": "server.trigger_rate_limit",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
