// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package parser

import (
	"sort"

	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// Movie validates raw and maps it to a stored movie.
func Movie(raw *tmdb.Movie, opts Options) (models.Movie, bool) {
	if raw == nil || raw.Credits == nil || raw.ReleaseDates == nil {
		return models.Movie{}, false
	}

	director := directorName(raw.Credits.Crew)
	cast := topCastNames(raw.Credits.Cast)
	imdbID := movieImdbID(raw)
	poster := deref(raw.PosterPath)
	releaseDate, hasRelease := parseDate(raw.ReleaseDate)

	switch {
	case director == "",
		len(cast) == 0,
		len(raw.Genres) == 0,
		imdbID == "",
		raw.Overview == "",
		poster == "",
		!hasRelease,
		raw.Runtime == nil || *raw.Runtime <= 0,
		raw.VoteCount < opts.MinVoteCount:
		return models.Movie{}, false
	}

	return models.Movie{
		ID:            raw.ID,
		Title:         raw.Title,
		Slug:          makeSlug(raw.Title, &releaseDate),
		Director:      director,
		Cast:          joinNames(cast),
		GenreID:       raw.Genres[0].ID,
		LanguageID:    raw.OriginalLanguage,
		ReleaseDate:   releaseDate,
		Runtime:       *raw.Runtime,
		PosterPath:    poster,
		Overview:      raw.Overview,
		Certification: certification(raw.ReleaseDates, opts.Region),
		ImdbID:        imdbID,
		Popularity:    raw.Popularity,
		VoteAverage:   raw.VoteAverage,
		VoteCount:     raw.VoteCount,
	}, true
}

// Show validates raw and maps it to a stored show.
func Show(raw *tmdb.Show, opts Options) (models.Show, bool) {
	if raw == nil || raw.Credits == nil {
		return models.Show{}, false
	}

	cast := topCastNames(raw.Credits.Cast)
	poster := deref(raw.PosterPath)
	rating, hasRating := contentRating(raw.ContentRatings, opts.Region)

	switch {
	case len(cast) == 0,
		len(raw.Genres) == 0,
		raw.Overview == "",
		poster == "",
		!hasRating,
		raw.VoteCount < opts.MinVoteCount:
		return models.Show{}, false
	}

	creators := make([]string, 0, len(raw.CreatedBy))
	for _, c := range raw.CreatedBy {
		creators = append(creators, c.Name)
	}
	firstAir := optionalDate(raw.FirstAirDate)

	return models.Show{
		ID:            raw.ID,
		Name:          raw.Name,
		Slug:          makeSlug(raw.Name, firstAir),
		CreatedBy:     joinNames(creators),
		Cast:          joinNames(cast),
		GenreID:       raw.Genres[0].ID,
		LanguageID:    raw.OriginalLanguage,
		FirstAirDate:  firstAir,
		LastAirDate:   optionalDate(raw.LastAirDate),
		Status:        raw.Status,
		PosterPath:    poster,
		Overview:      raw.Overview,
		ContentRating: rating,
		Popularity:    raw.Popularity,
		VoteAverage:   raw.VoteAverage,
		VoteCount:     raw.VoteCount,
	}, true
}

// Seasons maps the season summaries of a show, skipping specials.
func Seasons(raw *tmdb.Show) []models.Season {
	if raw == nil {
		return nil
	}
	seasons := make([]models.Season, 0, len(raw.Seasons))
	for _, s := range raw.Seasons {
		if s.SeasonNumber <= 0 {
			continue
		}
		seasons = append(seasons, models.Season{
			ID:           s.ID,
			ShowID:       raw.ID,
			SeasonNumber: s.SeasonNumber,
			Name:         s.Name,
			EpisodeCount: s.EpisodeCount,
			AirDate:      optionalDate(s.AirDate),
			Overview:     s.Overview,
			PosterPath:   optionalString(s.PosterPath),
			VoteAverage:  s.VoteAverage,
		})
	}
	return seasons
}

func directorName(crew []tmdb.CrewMember) string {
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// topCastNames returns up to three names ordered by billing order.
func topCastNames(cast []tmdb.CastMember) []string {
	if len(cast) == 0 {
		return nil
	}
	ordered := make([]tmdb.CastMember, len(cast))
	copy(ordered, cast)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	names := make([]string, 0, topCast)
	for _, c := range ordered {
		if len(names) == topCast {
			break
		}
		names = append(names, c.Name)
	}
	return names
}

func movieImdbID(raw *tmdb.Movie) string {
	if raw.ExternalIDs != nil && raw.ExternalIDs.ImdbID != nil && *raw.ExternalIDs.ImdbID != "" {
		return *raw.ExternalIDs.ImdbID
	}
	return deref(raw.ImdbID)
}

// certification returns the first non-empty certification of region.
func certification(dates *tmdb.ReleaseDates, region string) string {
	for _, country := range dates.Results {
		if country.Country != region {
			continue
		}
		for _, d := range country.ReleaseDates {
			if d.Certification != "" {
				return d.Certification
			}
		}
	}
	return ""
}

// contentRating reports the rating of region and whether an entry exists.
func contentRating(ratings *tmdb.ContentRatings, region string) (string, bool) {
	if ratings == nil {
		return "", false
	}
	for _, r := range ratings.Results {
		if r.Country == region {
			return r.Rating, true
		}
	}
	return "", false
}
