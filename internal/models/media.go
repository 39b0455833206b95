// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package models

import (
	"fmt"
	"time"
)

// MediaKind distinguishes movies from shows.
type MediaKind string

const (
	MediaMovie MediaKind = "movie"
	MediaShow  MediaKind = "show"
)

// Valid reports whether k is a known media kind.
func (k MediaKind) Valid() bool {
	return k == MediaMovie || k == MediaShow
}

// MediaRef identifies a movie or a show. TMDB movie and TV ids overlap,
// so the kind is part of the identity.
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	ID   int64     `json:"id"`
}

func (r MediaRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Movie is a stored movie. Only movies that pass the validity gate are persisted.
type Movie struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Slug          string    `db:"slug" json:"slug"`
	Director      string    `db:"director" json:"director"`
	Cast          string    `db:"cast_names" json:"cast"` // top 3, ", " separated
	GenreID       int       `db:"genre_id" json:"genre_id"`
	LanguageID    string    `db:"language_id" json:"language_id"`
	ReleaseDate   time.Time `db:"release_date" json:"release_date"`
	Runtime       int       `db:"runtime" json:"runtime"` // minutes
	PosterPath    string    `db:"poster_path" json:"poster_path"`
	Overview      string    `db:"overview" json:"overview"`
	Certification string    `db:"certification" json:"certification"`
	ImdbID        string    `db:"imdb_id" json:"imdb_id"`
	Popularity    float64   `db:"popularity" json:"popularity"`
	VoteAverage   float64   `db:"vote_average" json:"vote_average"`
	VoteCount     int       `db:"vote_count" json:"vote_count"`
}

// Ref returns the movie's media reference.
func (m Movie) Ref() MediaRef { return MediaRef{Kind: MediaMovie, ID: m.ID} }

// Show is a stored TV show.
type Show struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Slug          string     `db:"slug" json:"slug"`
	CreatedBy     string     `db:"created_by" json:"created_by"`
	Cast          string     `db:"cast_names" json:"cast"`
	GenreID       int        `db:"genre_id" json:"genre_id"`
	LanguageID    string     `db:"language_id" json:"language_id"`
	FirstAirDate  *time.Time `db:"first_air_date" json:"first_air_date,omitempty"`
	LastAirDate   *time.Time `db:"last_air_date" json:"last_air_date,omitempty"`
	Status        string     `db:"status" json:"status"`
	PosterPath    string     `db:"poster_path" json:"poster_path"`
	Overview      string     `db:"overview" json:"overview"`
	ContentRating string     `db:"content_rating" json:"content_rating"`
	Popularity    float64    `db:"popularity" json:"popularity"`
	VoteAverage   float64    `db:"vote_average" json:"vote_average"`
	VoteCount     int        `db:"vote_count" json:"vote_count"`
}

// Ref returns the show's media reference.
func (s Show) Ref() MediaRef { return MediaRef{Kind: MediaShow, ID: s.ID} }

// Season belongs to exactly one show. Seasons are replaced wholesale on
// every reconciliation of their show.
type Season struct {
	ID           int64      `db:"id" json:"id"`
	ShowID       int64      `db:"show_id" json:"show_id"`
	SeasonNumber int        `db:"season_number" json:"season_number"`
	Name         string     `db:"name" json:"name"`
	EpisodeCount int        `db:"episode_count" json:"episode_count"`
	AirDate      *time.Time `db:"air_date" json:"air_date,omitempty"`
	Overview     string     `db:"overview" json:"overview"`
	PosterPath   *string    `db:"poster_path" json:"poster_path,omitempty"`
	VoteAverage  float64    `db:"vote_average" json:"vote_average"`
}
