// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package parser

import (
	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// Person validates raw and maps it to a stored person. Persons without a
// profile image are never stored.
func Person(raw *tmdb.Person) (models.Person, bool) {
	if raw == nil {
		return models.Person{}, false
	}
	profile := deref(raw.ProfilePath)
	if profile == "" {
		return models.Person{}, false
	}
	return models.Person{
		ID:                 raw.ID,
		Name:               raw.Name,
		Biography:          raw.Biography,
		Birthday:           optionalDate(raw.Birthday),
		Deathday:           optionalDate(raw.Deathday),
		Gender:             raw.Gender,
		KnownForDepartment: raw.KnownForDepartment,
		PlaceOfBirth:       optionalString(raw.PlaceOfBirth),
		Popularity:         raw.Popularity,
		ProfilePath:        profile,
	}, true
}
