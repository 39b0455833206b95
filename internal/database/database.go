// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"

	"github.com/tomtom215/reelsync/internal/config"
	"github.com/tomtom215/reelsync/internal/logging"
	"github.com/tomtom215/reelsync/internal/models"
)

const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DB wraps the SQL connection pool and the typed tables of the catalog.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	driver string

	movies        *Table[models.Movie]
	shows         *Table[models.Show]
	seasons       *Table[models.Season]
	persons       *Table[models.Person]
	credits       *Table[models.Credit]
	providerLinks *Table[models.ProviderLink]
	genres        *Table[models.Genre]
	languages     *Table[models.Language]
	providers     *Table[models.Provider]
	runs          *Table[models.SyncRun]
}

// New opens the configured database and creates the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverDuckDB
	}

	var dsn string
	switch driver {
	case DriverDuckDB:
		numThreads := cfg.Threads
		if numThreads <= 0 {
			numThreads = runtime.NumCPU()
		}
		if cfg.Path != ":memory:" {
			dbDir := filepath.Dir(cfg.Path)
			if dbDir != "" && dbDir != "." {
				if err := os.MkdirAll(dbDir, 0o750); err != nil {
					return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
				}
			}
		}
		maxMemory := cfg.MaxMemory
		if maxMemory == "" {
			maxMemory = "2GB"
		}
		dsn = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
			cfg.Path, numThreads, maxMemory)
	case DriverPostgres:
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := newDB(conn, cfg, driver)
	db.configureConnectionPool()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if err := db.createSchema(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("driver", driver).Msg("[DATABASE] Schema ready")
	return db, nil
}

// newDB wires the tables around an open connection. Tests use it with
// sqlmock connections.
func newDB(conn *sql.DB, cfg *config.DatabaseConfig, driver string) *DB {
	db := &DB{conn: conn, cfg: cfg, driver: driver}
	db.movies = newTable[models.Movie](db, "movies", "id")
	db.shows = newTable[models.Show](db, "shows", "id")
	db.seasons = newTable[models.Season](db, "seasons", "id")
	db.persons = newTable[models.Person](db, "persons", "id")
	db.credits = newTable[models.Credit](db, "credits", "id")
	db.providerLinks = newTable[models.ProviderLink](db, "provider_links", "media_kind", "media_id", "provider_id")
	db.genres = newTable[models.Genre](db, "genres", "id")
	db.languages = newTable[models.Language](db, "languages", "id")
	db.providers = newTable[models.Provider](db, "providers", "id")
	db.runs = newTable[models.SyncRun](db, "sync_runs", "id")
	return db
}

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	maxConns := runtime.NumCPU()
	if db.cfg != nil && db.cfg.MaxConns > 0 {
		maxConns = db.cfg.MaxConns
	}
	db.conn.SetMaxOpenConns(maxConns)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints DuckDB and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.driver == DriverDuckDB {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("[DATABASE] Failed to checkpoint before close")
		}
		cancel()
	}
	return db.conn.Close()
}

func (db *DB) Movies() *Table[models.Movie]               { return db.movies }
func (db *DB) Shows() *Table[models.Show]                 { return db.shows }
func (db *DB) Seasons() *Table[models.Season]             { return db.seasons }
func (db *DB) Persons() *Table[models.Person]             { return db.persons }
func (db *DB) Credits() *Table[models.Credit]             { return db.credits }
func (db *DB) ProviderLinks() *Table[models.ProviderLink] { return db.providerLinks }
func (db *DB) Genres() *Table[models.Genre]               { return db.genres }
func (db *DB) Languages() *Table[models.Language]         { return db.languages }
func (db *DB) Providers() *Table[models.Provider]         { return db.providers }

// Stores bundles the tables in the shape the loader consumes.
func (db *DB) Stores() Stores {
	return Stores{
		Movies:        db.movies,
		Shows:         db.shows,
		Seasons:       db.seasons,
		Persons:       db.persons,
		Credits:       db.credits,
		ProviderLinks: db.providerLinks,
		Genres:        db.genres,
		Languages:     db.languages,
		Providers:     db.providers,
		Runs:          db,
		Counts:        db,
	}
}
