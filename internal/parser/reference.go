// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package parser

import (
	"github.com/tomtom215/reelsync/internal/models"
	"github.com/tomtom215/reelsync/internal/tmdb"
)

// Genres merges the movie and TV genre lists. A genre present in both is
// typed "both".
func Genres(movie, tv []tmdb.Genre) []models.Genre {
	index := make(map[int]int, len(movie)+len(tv))
	genres := make([]models.Genre, 0, len(movie)+len(tv))

	for _, g := range movie {
		if _, dup := index[g.ID]; dup {
			continue
		}
		index[g.ID] = len(genres)
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name, Type: models.GenreMovie})
	}
	for _, g := range tv {
		if i, ok := index[g.ID]; ok {
			if genres[i].Type == models.GenreMovie {
				genres[i].Type = models.GenreBoth
			}
			continue
		}
		index[g.ID] = len(genres)
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name, Type: models.GenreTV})
	}
	return genres
}

func Languages(raw []tmdb.Language) []models.Language {
	languages := make([]models.Language, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, l := range raw {
		if l.Code == "" {
			continue
		}
		if _, dup := seen[l.Code]; dup {
			continue
		}
		seen[l.Code] = struct{}{}
		name := l.EnglishName
		if name == "" {
			name = l.Name
		}
		languages = append(languages, models.Language{ID: l.Code, Name: name})
	}
	return languages
}

// Providers merges the movie and TV provider lists of region. The display
// priority is the region's own priority when TMDB reports one.
func Providers(movie, tv []tmdb.Provider, region string) []models.Provider {
	seen := make(map[int]struct{}, len(movie)+len(tv))
	providers := make([]models.Provider, 0, len(movie)+len(tv))
	for _, list := range [][]tmdb.Provider{movie, tv} {
		for _, p := range list {
			if _, dup := seen[p.ProviderID]; dup {
				continue
			}
			seen[p.ProviderID] = struct{}{}

			priority := p.DisplayPriority
			if regional, ok := p.DisplayPriorities[region]; ok {
				priority = regional
			}
			providers = append(providers, models.Provider{
				ID:              p.ProviderID,
				Name:            p.ProviderName,
				LogoPath:        p.LogoPath,
				DisplayPriority: priority,
			})
		}
	}
	return providers
}
