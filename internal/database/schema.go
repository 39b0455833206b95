// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"fmt"
)

// tableDefinitions is the catalog schema. Column names match the `db`
// tags of internal/models. Types are valid in DuckDB and Postgres.
var tableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS genres (
		id INTEGER PRIMARY KEY,
		name VARCHAR NOT NULL,
		genre_type VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		"count" INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS providers (
		id INTEGER PRIMARY KEY,
		name VARCHAR NOT NULL,
		logo_path VARCHAR,
		display_priority INTEGER,
		"count" INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT PRIMARY KEY,
		title VARCHAR NOT NULL,
		slug VARCHAR NOT NULL,
		director VARCHAR NOT NULL,
		cast_names VARCHAR NOT NULL,
		genre_id INTEGER NOT NULL,
		language_id VARCHAR,
		release_date DATE NOT NULL,
		runtime INTEGER NOT NULL,
		poster_path VARCHAR NOT NULL,
		overview VARCHAR NOT NULL,
		certification VARCHAR,
		imdb_id VARCHAR NOT NULL,
		popularity FLOAT8,
		vote_average FLOAT8,
		vote_count INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		slug VARCHAR NOT NULL,
		created_by VARCHAR,
		cast_names VARCHAR NOT NULL,
		genre_id INTEGER NOT NULL,
		language_id VARCHAR,
		first_air_date DATE,
		last_air_date DATE,
		status VARCHAR,
		poster_path VARCHAR NOT NULL,
		overview VARCHAR NOT NULL,
		content_rating VARCHAR,
		popularity FLOAT8,
		vote_average FLOAT8,
		vote_count INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS seasons (
		id BIGINT PRIMARY KEY,
		show_id BIGINT NOT NULL,
		season_number INTEGER NOT NULL,
		name VARCHAR,
		episode_count INTEGER,
		air_date DATE,
		overview VARCHAR,
		poster_path VARCHAR,
		vote_average FLOAT8
	)`,
	`CREATE TABLE IF NOT EXISTS persons (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		biography VARCHAR,
		birthday DATE,
		deathday DATE,
		gender INTEGER,
		known_for_department VARCHAR,
		place_of_birth VARCHAR,
		popularity FLOAT8,
		profile_path VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS credits (
		id VARCHAR PRIMARY KEY,
		person_id BIGINT NOT NULL,
		movie_id BIGINT,
		show_id BIGINT,
		character_name VARCHAR,
		credit_order INTEGER,
		department VARCHAR,
		job VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS provider_links (
		media_kind VARCHAR NOT NULL,
		media_id BIGINT NOT NULL,
		provider_id INTEGER NOT NULL,
		PRIMARY KEY (media_kind, media_id, provider_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sync_runs (
		id VARCHAR PRIMARY KEY,
		mode VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP,
		summary VARCHAR
	)`,
}

// postgresIndexes back the scoped lookups of reconciliation.
var postgresIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_seasons_show ON seasons (show_id)`,
	`CREATE INDEX IF NOT EXISTS idx_credits_movie ON credits (movie_id)`,
	`CREATE INDEX IF NOT EXISTS idx_credits_show ON credits (show_id)`,
	`CREATE INDEX IF NOT EXISTS idx_credits_person ON credits (person_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_language ON movies (language_id)`,
	`CREATE INDEX IF NOT EXISTS idx_provider_links_provider ON provider_links (provider_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs (started_at)`,
}

// createSchema creates all tables and, on Postgres, secondary indexes
func (db *DB) createSchema(ctx context.Context) error {
	for _, ddl := range tableDefinitions {
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	if db.driver != DriverPostgres {
		return nil
	}
	for _, ddl := range postgresIndexes {
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
