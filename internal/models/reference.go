// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package models

import "time"

// GenreType tags which catalog a genre appears in.
type GenreType string

const (
	GenreMovie GenreType = "movie"
	GenreTV    GenreType = "tv"
	GenreBoth  GenreType = "both"
)

type Genre struct {
	ID   int       `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
	Type GenreType `db:"genre_type" json:"type"`
}

// Language is keyed by ISO 639-1 code. Count is the number of movies in
// the language and is recomputed after every run.
type Language struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// Provider is a streaming service. Count is the number of linked movies
// and shows and is recomputed after every run.
type Provider struct {
	ID              int    `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	LogoPath        string `db:"logo_path" json:"logo_path"`
	DisplayPriority int    `db:"display_priority" json:"display_priority"`
	Count           int    `db:"count" json:"count"`
}

// SyncRun is the persisted record of one orchestrator invocation.
type SyncRun struct {
	ID        string     `db:"id" json:"id"`
	Mode      string     `db:"mode" json:"mode"`
	StartedAt time.Time  `db:"started_at" json:"started_at"`
	EndedAt   *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	Summary   *string    `db:"summary" json:"-"` // JSON encoded run summary
}
