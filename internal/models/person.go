// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package models

import (
	"fmt"
	"time"
)

// Person is a stored cast or crew member. Persons are owned by nobody and
// are only deleted when TMDB reports them gone.
type Person struct {
	ID                 int64      `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Biography          string     `db:"biography" json:"biography"`
	Birthday           *time.Time `db:"birthday" json:"birthday,omitempty"`
	Deathday           *time.Time `db:"deathday" json:"deathday,omitempty"`
	Gender             int        `db:"gender" json:"gender"`
	KnownForDepartment string     `db:"known_for_department" json:"known_for_department"`
	PlaceOfBirth       *string    `db:"place_of_birth" json:"place_of_birth,omitempty"`
	Popularity         float64    `db:"popularity" json:"popularity"`
	ProfilePath        string     `db:"profile_path" json:"profile_path"`
}

// Credit links a person to exactly one movie or show.
//
// Cast credits carry Character and Order, crew credits carry Department
// and Job. The halves that do not apply are nil, as is the foreign key of
// the other media kind.
type Credit struct {
	ID         string  `db:"id" json:"id"`
	PersonID   int64   `db:"person_id" json:"person_id"`
	MovieID    *int64  `db:"movie_id" json:"movie_id,omitempty"`
	ShowID     *int64  `db:"show_id" json:"show_id,omitempty"`
	Character  *string `db:"character_name" json:"character,omitempty"`
	Order      *int    `db:"credit_order" json:"order,omitempty"`
	Department *string `db:"department" json:"department,omitempty"`
	Job        *string `db:"job" json:"job,omitempty"`
}

// Media returns the movie or show the credit belongs to.
func (c Credit) Media() MediaRef {
	if c.MovieID != nil {
		return MediaRef{Kind: MediaMovie, ID: *c.MovieID}
	}
	if c.ShowID != nil {
		return MediaRef{Kind: MediaShow, ID: *c.ShowID}
	}
	return MediaRef{}
}

// IsCast reports whether the credit carries a cast role payload.
func (c Credit) IsCast() bool {
	return c.Order != nil || c.Character != nil
}

// NewCastCredit builds a cast credit for ref.
func NewCastCredit(ref MediaRef, id string, personID int64, character string, order int) Credit {
	c := Credit{ID: id, PersonID: personID, Character: &character, Order: &order}
	c.setMedia(ref)
	return c
}

// NewCrewCredit builds a crew credit for ref.
func NewCrewCredit(ref MediaRef, id string, personID int64, department, job string) Credit {
	c := Credit{ID: id, PersonID: personID, Department: &department, Job: &job}
	c.setMedia(ref)
	return c
}

func (c *Credit) setMedia(ref MediaRef) {
	id := ref.ID
	switch ref.Kind {
	case MediaMovie:
		c.MovieID = &id
	case MediaShow:
		c.ShowID = &id
	}
}

// ProviderLink records that a movie or show is available on a streaming provider.
type ProviderLink struct {
	MediaKind  MediaKind `db:"media_kind" json:"media_kind"`
	MediaID    int64     `db:"media_id" json:"media_id"`
	ProviderID int       `db:"provider_id" json:"provider_id"`
}

// Key is the composite identity of the link.
func (l ProviderLink) Key() string {
	return fmt.Sprintf("%s:%d:%d", l.MediaKind, l.MediaID, l.ProviderID)
}
